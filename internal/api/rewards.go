package rewards

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	model "github.com/glkeru/rewards/internal/models"
	service "github.com/glkeru/rewards/internal/services"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type RewardsHandler struct {
	router     *mux.Router
	accounting *service.AccountingService
	gifts      *service.GiftService
	logger     *zap.Logger
}

func NewHandler(accounting *service.AccountingService, gifts *service.GiftService, logger *zap.Logger) *RewardsHandler {
	router := mux.NewRouter()
	handler := &RewardsHandler{router, accounting, gifts, logger}
	router.Use(MiddlewareLog())
	router.HandleFunc("/earn", handler.EarnHandler).Methods(http.MethodPost)
	router.HandleFunc("/adjust", handler.AdjustHandler).Methods(http.MethodPost)
	router.HandleFunc("/purchase", handler.PurchaseHandler).Methods(http.MethodPost)
	router.HandleFunc("/balance/{id}", handler.BalanceHandler).Methods(http.MethodGet)
	router.HandleFunc("/ledger/{id}", handler.LedgerHandler).Methods(http.MethodGet)
	router.HandleFunc("/gift", handler.SendGiftHandler).Methods(http.MethodPost)
	router.HandleFunc("/gift/{id}/activate", handler.ActivateGiftHandler).Methods(http.MethodPost)
	router.HandleFunc("/gift/{id}/revoke", handler.RevokeGiftHandler).Methods(http.MethodPost)
	router.HandleFunc("/gifts/{id}", handler.GiftsHandler).Methods(http.MethodGet)

	return handler
}

func (r *RewardsHandler) ServeHTTP(w http.ResponseWriter, res *http.Request) {
	r.router.ServeHTTP(w, res)
}

func (r *RewardsHandler) Log(msg string, service string, err error) {
	r.logger.Error(msg,
		zap.String("service", service),
		zap.Error(err),
	)
}

// маппинг типизированных ошибок ядра на HTTP статусы
func (r *RewardsHandler) Error(w http.ResponseWriter, service string, err error) {
	switch {
	case errors.Is(err, model.ErrDependentNotFound),
		errors.Is(err, model.ErrGiftNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrGiftNotOwned):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, model.ErrInsufficientBalance),
		errors.Is(err, model.ErrInvalidGiftTransition),
		errors.Is(err, model.ErrEntitlementUnavailable):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		r.Log("Request failed", service, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type EarnRequest struct {
	Dependent uuid.UUID `json:"dependent"`
	Points    int64     `json:"points"`
	Reason    string    `json:"reason"`
	Ref       string    `json:"ref"`
}

type DeltaResponse struct {
	Balance int64  `json:"balance"`
	Name    string `json:"name"`
	Applied bool   `json:"applied"`
}

// Начисление баллов
func (r RewardsHandler) EarnHandler(w http.ResponseWriter, req *http.Request) {
	earn := &EarnRequest{}
	if !r.readBody(w, req, "EarnHandler", earn) {
		return
	}

	var res model.DeltaResult
	var err error
	switch model.Reason(earn.Reason) {
	case model.ReasonTask:
		res, err = r.accounting.TaskCompleted(req.Context(), earn.Dependent, earn.Points, earn.Ref)
	case model.ReasonGame:
		res, err = r.accounting.GameCompleted(req.Context(), earn.Dependent, earn.Points, earn.Ref)
	case model.ReasonAdWatch:
		res, err = r.accounting.AdWatched(req.Context(), earn.Dependent, earn.Points, earn.Ref)
	case model.ReasonMarketSale:
		res, err = r.accounting.MarketSale(req.Context(), earn.Dependent, earn.Points, earn.Ref)
	default:
		http.Error(w, "Unknown earn reason: "+earn.Reason, http.StatusBadRequest)
		return
	}
	if err != nil {
		r.Error(w, "EarnHandler", err)
		return
	}
	r.writeJSON(w, "EarnHandler", &DeltaResponse{res.NewBalance, res.Name, res.Applied})
}

type AdjustRequest struct {
	Actor       uuid.UUID `json:"actor"`
	Dependent   uuid.UUID `json:"dependent"`
	Delta       int64     `json:"delta"`
	Correlation string    `json:"correlation"`
	Clamp       bool      `json:"clamp"`
}

// Административная корректировка
func (r RewardsHandler) AdjustHandler(w http.ResponseWriter, req *http.Request) {
	adjust := &AdjustRequest{}
	if !r.readBody(w, req, "AdjustHandler", adjust) {
		return
	}
	actor := model.Actor{UUID: adjust.Actor, Role: model.RoleAdmin}
	res, err := r.accounting.AdminAdjust(req.Context(), actor, adjust.Dependent, adjust.Delta, adjust.Correlation, adjust.Clamp)
	if err != nil {
		r.Error(w, "AdjustHandler", err)
		return
	}
	r.writeJSON(w, "AdjustHandler", &DeltaResponse{res.NewBalance, res.Name, res.Applied})
}

type PurchaseRequest struct {
	Dependent  uuid.UUID `json:"dependent"`
	Cost       int64     `json:"cost"`
	PurchaseId string    `json:"purchaseId"`
}

// Списание за покупку
func (r RewardsHandler) PurchaseHandler(w http.ResponseWriter, req *http.Request) {
	purchase := &PurchaseRequest{}
	if !r.readBody(w, req, "PurchaseHandler", purchase) {
		return
	}
	res, err := r.accounting.Purchase(req.Context(), purchase.Dependent, purchase.Cost, purchase.PurchaseId)
	if err != nil {
		r.Error(w, "PurchaseHandler", err)
		return
	}
	r.writeJSON(w, "PurchaseHandler", &DeltaResponse{res.NewBalance, res.Name, res.Applied})
}

type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

// Баланс
func (r RewardsHandler) BalanceHandler(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	balance, err := r.accounting.GetBalance(req.Context(), id)
	if err != nil {
		r.Error(w, "BalanceHandler", err)
		return
	}
	r.writeJSON(w, "BalanceHandler", &BalanceResponse{balance})
}

// История журнала за период
func (r RewardsHandler) LedgerHandler(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	from, err := time.Parse("2006-01-02 15:04:05", req.URL.Query().Get("from")+" 00:00:00")
	if err != nil {
		http.Error(w, "from is not correct", http.StatusBadRequest)
		return
	}
	to, err := time.Parse("2006-01-02 15:04:05", req.URL.Query().Get("to")+" 23:59:59")
	if err != nil {
		http.Error(w, "to is not correct", http.StatusBadRequest)
		return
	}
	entries, err := r.accounting.GetLedger(req.Context(), id, from, to)
	if err != nil {
		r.Error(w, "LedgerHandler", err)
		return
	}
	r.writeJSON(w, "LedgerHandler", entries)
}

type SendGiftRequest struct {
	Guardian    uuid.UUID `json:"guardian"`
	Entitlement uuid.UUID `json:"entitlement"`
	Dependent   uuid.UUID `json:"dependent"`
	Threshold   int64     `json:"threshold"`
	Message     string    `json:"message"`
}

// Отправка подарка
func (r RewardsHandler) SendGiftHandler(w http.ResponseWriter, req *http.Request) {
	send := &SendGiftRequest{}
	if !r.readBody(w, req, "SendGiftHandler", send) {
		return
	}
	gift, err := r.gifts.Send(req.Context(), send.Guardian, send.Entitlement, send.Dependent, send.Threshold, send.Message)
	if err != nil {
		r.Error(w, "SendGiftHandler", err)
		return
	}
	r.writeJSON(w, "SendGiftHandler", gift)
}

type ActorRequest struct {
	Actor  uuid.UUID `json:"actor"`
	Role   string    `json:"role"`
	Reason string    `json:"reason"`
}

// Активация подарка
func (r RewardsHandler) ActivateGiftHandler(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	actor := &ActorRequest{}
	if !r.readBody(w, req, "ActivateGiftHandler", actor) {
		return
	}
	err = r.gifts.Activate(req.Context(), model.Actor{UUID: actor.Actor, Role: model.Role(actor.Role)}, id)
	if err != nil {
		r.Error(w, "ActivateGiftHandler", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Отзыв подарка
func (r RewardsHandler) RevokeGiftHandler(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	actor := &ActorRequest{}
	if !r.readBody(w, req, "RevokeGiftHandler", actor) {
		return
	}
	err = r.gifts.Revoke(req.Context(), model.Actor{UUID: actor.Actor, Role: model.Role(actor.Role)}, id, actor.Reason)
	if err != nil {
		r.Error(w, "RevokeGiftHandler", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Подарки подопечного
func (r RewardsHandler) GiftsHandler(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	gifts, err := r.gifts.GiftsForDependent(req.Context(), id)
	if err != nil {
		r.Error(w, "GiftsHandler", err)
		return
	}
	r.writeJSON(w, "GiftsHandler", gifts)
}

func (r *RewardsHandler) readBody(w http.ResponseWriter, req *http.Request, service string, dst any) bool {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.Log("Get request body", service, err)
		http.Error(w, "Body is empty", http.StatusBadRequest)
		return false
	}
	defer req.Body.Close()
	err = json.Unmarshal(body, dst)
	if err != nil {
		r.Log("Unmarshal", service, err)
		http.Error(w, "Body is not correct", http.StatusBadRequest)
		return false
	}
	return true
}

func (r *RewardsHandler) writeJSON(w http.ResponseWriter, service string, response any) {
	j, err := json.Marshal(response)
	if err != nil {
		r.Log("Marshal", service, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(j)
}
