package rewards

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	sq "github.com/Masterminds/squirrel"
	model "github.com/glkeru/rewards/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type RewardsDB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewRewardsDB(logger *zap.Logger) (db *RewardsDB, err error) {
	// config
	purl := os.Getenv("REWARDS_DB")
	if purl == "" {
		return nil, fmt.Errorf("env REWARDS_DB is not set")
	}
	port := os.Getenv("REWARDS_DB_PORT")
	if port == "" {
		return nil, fmt.Errorf("env REWARDS_DB_PORT is not set")
	}
	user := os.Getenv("REWARDS_DB_USER")
	if user == "" {
		return nil, fmt.Errorf("env REWARDS_DB_USER is not set")
	}
	password := os.Getenv("REWARDS_DB_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("env REWARDS_DB_PASSWORD is not set")
	}
	database := os.Getenv("REWARDS_DB_BASE")
	if database == "" {
		return nil, fmt.Errorf("env REWARDS_DB_BASE is not set")
	}
	dsn := "postgres://" + user + ":" + password + "@" + purl + ":" + port + "/" + database

	pool, err := pgxpool.New(context.Background(), dsn)
	return &RewardsDB{pool, logger}, err
}

// Изменение баланса: блокировка строки счета, запись в журнал и обновление
// баланса в одной транзакции
func (p *RewardsDB) ApplyDelta(ctx context.Context, req model.DeltaRequest) (res model.DeltaResult, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return res, err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return res, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	// блокируем строку с балансом
	var current int64
	var name string
	row := tx.QueryRow(ctx, "SELECT name, balance FROM dependents WHERE uuid = $1 FOR UPDATE", req.Dependent)
	err = row.Scan(&name, &current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("dependent %s: %w", req.Dependent, model.ErrDependentNotFound)
		}
		return res, err
	}
	res.Name = name
	res.NewBalance = current

	// повтор по correlationRef - дельта уже применена
	if req.CorrelationRef != "" {
		var dup int
		row = tx.QueryRow(ctx,
			"SELECT COUNT(*) FROM ledger WHERE dependent = $1 AND reason = $2 AND correlationref = $3",
			req.Dependent, req.Reason, req.CorrelationRef)
		err = row.Scan(&dup)
		if err != nil {
			return res, err
		}
		if dup > 0 {
			tx.Commit(ctx)
			return res, nil
		}
	}

	effective, err := model.ResolveDelta(current, req.Delta, req.Floor, req.ClampToFloor)
	if err != nil {
		return res, err
	}
	// нулевая дельта - ничего не пишем
	if effective == 0 {
		tx.Commit(ctx)
		return res, nil
	}

	newbalance := current + effective

	sql, args, err := sq.Insert("ledger").
		Columns("id", "dependent", "points", "balanceafter", "reason", "taskref", "correlationref", "createdat").
		Values(uuid.New(), req.Dependent, effective, newbalance, req.Reason, req.TaskRef, req.CorrelationRef, time.Now()).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		p.logger.Error("SQL error",
			zap.Error(err),
			zap.String("query", sql),
			zap.Any("args", args),
		)
		return res, err
	}
	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		p.logger.Error("SQL error",
			zap.Error(err),
			zap.String("query", sql),
			zap.Any("args", args),
		)
		return res, err
	}

	sql, args, err = sq.Update("dependents").
		Set("balance", newbalance).
		Where(sq.Eq{"uuid": req.Dependent}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return res, err
	}
	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		p.logger.Error("Update balance error",
			zap.Error(err),
			zap.String("service", "ApplyDelta"),
			zap.String("dependent", req.Dependent.String()))
		return res, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return res, err
	}
	res.NewBalance = newbalance
	res.Applied = true
	return res, nil
}

// Получить счет подопечного
func (p *RewardsDB) GetDependent(ctx context.Context, dependent uuid.UUID) (dep model.Dependent, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return dep, err
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, "SELECT uuid, guardian, name, balance FROM dependents WHERE uuid = $1", dependent)
	err = row.Scan(&dep.UUID, &dep.Guardian, &dep.Name, &dep.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dep, fmt.Errorf("dependent %s: %w", dependent, model.ErrDependentNotFound)
		}
		return dep, err
	}
	return dep, nil
}

// Получить баланс
func (p *RewardsDB) GetBalance(ctx context.Context, dependent uuid.UUID) (balance int64, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, "SELECT balance FROM dependents WHERE uuid = $1", dependent)
	err = row.Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("dependent %s: %w", dependent, model.ErrDependentNotFound)
		}
		return 0, err
	}
	return balance, nil
}

// Получить записи журнала за период
func (p *RewardsDB) GetLedger(ctx context.Context, dependent uuid.UUID, from time.Time, to time.Time) (entries []model.LedgerEntry, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	sql, args, err := sq.Select("id", "dependent", "points", "balanceafter", "reason", "taskref", "correlationref", "createdat").
		From("ledger").
		Where(sq.Eq{"dependent": dependent}).
		Where(sq.GtOrEq{"createdat": from}).
		Where(sq.LtOrEq{"createdat": to}).
		OrderBy("createdat").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entry model.LedgerEntry
	var taskref pgtype.Text
	var correlationref pgtype.Text
	for rows.Next() {
		err = rows.Scan(&entry.UUID, &entry.Dependent, &entry.Points, &entry.BalanceAfter,
			&entry.Reason, &taskref, &correlationref, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		entry.TaskRef = taskref.String
		entry.CorrelationRef = correlationref.String
		entries = append(entries, entry)
	}
	return entries, nil
}

// Создание подарка и делегирование права в одной транзакции
func (p *RewardsDB) GiftCreate(ctx context.Context, gift model.Gift) (model.Gift, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return gift, err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return gift, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	gift.UUID = uuid.New()
	gift.Status = model.GiftSent
	gift.SentAt = time.Now()

	sql, args, err := sq.Insert("gifts").
		Columns("uuid", "guardian", "dependent", "product", "entitlement", "threshold", "status", "message", "sentat").
		Values(gift.UUID, gift.Guardian, gift.Dependent, gift.Product, gift.Entitlement,
			gift.Threshold, gift.Status, gift.Message, gift.SentAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		p.logger.Error("SQL error",
			zap.Error(err),
			zap.String("query", sql),
			zap.Any("args", args),
		)
		return gift, err
	}
	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		p.logger.Error("SQL error",
			zap.Error(err),
			zap.String("query", sql),
			zap.Any("args", args),
		)
		return gift, err
	}

	// право остается не назначенным только пока никто не успел его занять
	sql, args, err = sq.Update("entitlements").
		Set("dependent", gift.Dependent).
		Set("status", model.EntitlementAssigned).
		Where(sq.Eq{"uuid": gift.Entitlement}).
		Where(sq.Eq{"status": model.EntitlementActive}).
		Where(sq.Eq{"dependent": nil}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return gift, err
	}
	ct, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return gift, err
	}
	if ct.RowsAffected() != 1 {
		err = fmt.Errorf("entitlement %s: %w", gift.Entitlement, model.ErrEntitlementUnavailable)
		return gift, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return gift, err
	}
	return gift, nil
}

// Получить подарок
func (p *RewardsDB) GiftByID(ctx context.Context, gift uuid.UUID) (g model.Gift, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return g, err
	}
	defer conn.Release()

	row := conn.QueryRow(ctx,
		"SELECT uuid, guardian, dependent, product, entitlement, threshold, status, message, sentat, unlockedat, activatedat, revokedat FROM gifts WHERE uuid = $1",
		gift)
	g, err = scanGift(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return g, fmt.Errorf("gift %s: %w", gift, model.ErrGiftNotFound)
		}
		return g, err
	}
	return g, nil
}

// Живой (не завершенный) подарок по тройке продукт/опекун/подопечный
func (p *RewardsDB) FindLiveGift(ctx context.Context, product string, guardian uuid.UUID, dependent uuid.UUID) (g model.Gift, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return g, err
	}
	defer conn.Release()

	sql, args, err := sq.Select("uuid", "guardian", "dependent", "product", "entitlement", "threshold", "status", "message", "sentat", "unlockedat", "activatedat", "revokedat").
		From("gifts").
		Where(sq.Eq{"product": product}).
		Where(sq.Eq{"guardian": guardian}).
		Where(sq.Eq{"dependent": dependent}).
		Where(sq.Eq{"status": []model.GiftStatus{model.GiftSent, model.GiftUnlocked}}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return g, err
	}
	row := conn.QueryRow(ctx, sql, args...)
	g, err = scanGift(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return g, fmt.Errorf("gift %s/%s: %w", product, dependent, model.ErrGiftNotFound)
		}
		return g, err
	}
	return g, nil
}

// Отправленные подарки с достигнутым порогом
func (p *RewardsDB) SentGiftsReady(ctx context.Context, dependent uuid.UUID, total int64) (gifts []model.Gift, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	sql, args, err := sq.Select("uuid", "guardian", "dependent", "product", "entitlement", "threshold", "status", "message", "sentat", "unlockedat", "activatedat", "revokedat").
		From("gifts").
		Where(sq.Eq{"dependent": dependent}).
		Where(sq.Eq{"status": model.GiftSent}).
		Where(sq.LtOrEq{"threshold": total}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, err
		}
		gifts = append(gifts, g)
	}
	return gifts, nil
}

// Все подарки подопечного
func (p *RewardsDB) GiftsForDependent(ctx context.Context, dependent uuid.UUID) (gifts []model.Gift, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	sql, args, err := sq.Select("uuid", "guardian", "dependent", "product", "entitlement", "threshold", "status", "message", "sentat", "unlockedat", "activatedat", "revokedat").
		From("gifts").
		Where(sq.Eq{"dependent": dependent}).
		OrderBy("sentat").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, err
		}
		gifts = append(gifts, g)
	}
	return gifts, nil
}

// Условный переход SENT -> UNLOCKED, выигрывает ровно один конкурент
func (p *RewardsDB) UnlockGift(ctx context.Context, gift uuid.UUID) (bool, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	sql, args, err := sq.Update("gifts").
		Set("status", model.GiftUnlocked).
		Set("unlockedat", time.Now()).
		Where(sq.Eq{"uuid": gift}).
		Where(sq.Eq{"status": model.GiftSent}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}
	ct, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		p.logger.Error("Unlock gift error",
			zap.Error(err),
			zap.String("service", "UnlockGift"),
			zap.String("gift", gift.String()))
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// Условный переход UNLOCKED -> ACTIVATED + активация права
func (p *RewardsDB) ActivateGift(ctx context.Context, gift uuid.UUID) (ok bool, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil || !ok {
			tx.Rollback(ctx)
		}
	}()

	var entitlement uuid.UUID
	row := tx.QueryRow(ctx, "SELECT entitlement FROM gifts WHERE uuid = $1", gift)
	err = row.Scan(&entitlement)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("gift %s: %w", gift, model.ErrGiftNotFound)
		}
		return false, err
	}

	sql, args, err := sq.Update("gifts").
		Set("status", model.GiftActivated).
		Set("activatedat", time.Now()).
		Where(sq.Eq{"uuid": gift}).
		Where(sq.Eq{"status": model.GiftUnlocked}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}
	ct, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	if ct.RowsAffected() != 1 {
		return false, nil
	}

	// делегирование сохраняется, право становится активным
	sql, args, err = sq.Update("entitlements").
		Set("status", model.EntitlementActive).
		Where(sq.Eq{"uuid": entitlement}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}
	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return false, err
	}
	return true, nil
}

// Условный переход SENT/UNLOCKED -> REVOKED + возврат права опекуну
func (p *RewardsDB) RevokeGift(ctx context.Context, gift uuid.UUID) (ok bool, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil || !ok {
			tx.Rollback(ctx)
		}
	}()

	var entitlement uuid.UUID
	row := tx.QueryRow(ctx, "SELECT entitlement FROM gifts WHERE uuid = $1", gift)
	err = row.Scan(&entitlement)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("gift %s: %w", gift, model.ErrGiftNotFound)
		}
		return false, err
	}

	sql, args, err := sq.Update("gifts").
		Set("status", model.GiftRevoked).
		Set("revokedat", time.Now()).
		Where(sq.Eq{"uuid": gift}).
		Where(sq.Eq{"status": []model.GiftStatus{model.GiftSent, model.GiftUnlocked}}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}
	ct, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	if ct.RowsAffected() != 1 {
		return false, nil
	}

	sql, args, err = sq.Update("entitlements").
		Set("dependent", nil).
		Set("status", model.EntitlementActive).
		Where(sq.Eq{"uuid": entitlement}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}
	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return false, err
	}
	return true, nil
}

// Получить право на продукт
func (p *RewardsDB) EntitlementByID(ctx context.Context, entitlement uuid.UUID) (e model.Entitlement, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return e, err
	}
	defer conn.Release()

	var dependent pgtype.UUID
	row := conn.QueryRow(ctx, "SELECT uuid, product, guardian, dependent, status FROM entitlements WHERE uuid = $1", entitlement)
	err = row.Scan(&e.UUID, &e.Product, &e.Guardian, &dependent, &e.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return e, fmt.Errorf("entitlement %s: %w", entitlement, model.ErrEntitlementUnavailable)
		}
		return e, err
	}
	if dependent.Status == pgtype.Present {
		d, _ := uuid.FromBytes(dependent.Bytes[:])
		e.Dependent = &d
	}
	return e, nil
}

func scanGift(row pgx.Row) (g model.Gift, err error) {
	var message pgtype.Text
	err = row.Scan(&g.UUID, &g.Guardian, &g.Dependent, &g.Product, &g.Entitlement,
		&g.Threshold, &g.Status, &message, &g.SentAt, &g.UnlockedAt, &g.ActivatedAt, &g.RevokedAt)
	if err != nil {
		return g, err
	}
	g.Message = message.String
	return g, nil
}
