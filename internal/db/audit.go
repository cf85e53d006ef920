package rewards

import (
	"context"
	"fmt"
	"os"
	"time"

	model "github.com/glkeru/rewards/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Журнал аудита, append-only коллекция
type AuditDB struct {
	mgo  *mongo.Client
	coll *mongo.Collection
}

func NewAuditDB() (*AuditDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mng := os.Getenv("REWARDS_MONGO")
	if mng == "" {
		return nil, fmt.Errorf("env REWARDS_MONGO is not set")
	}

	options := options.Client().ApplyURI("mongodb://" + mng)
	client, err := mongo.Connect(ctx, options)
	if err != nil {
		return nil, err
	}
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, err
	}
	db := client.Database("rewardsDB")
	coll := db.Collection("audit")

	return &AuditDB{client, coll}, nil
}

func (a *AuditDB) Append(ctx context.Context, rec model.AuditRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := a.coll.InsertOne(ctx, rec)
	if err != nil {
		return err
	}
	return nil
}
