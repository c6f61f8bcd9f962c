package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// UnitOfWork runs a function as one atomic unit against the database. The
// scheduling service receives it explicitly so that a status transition and
// its notification append commit or roll back together.
type UnitOfWork interface {
	// WithinTransaction executes fn inside a transaction. Every repository
	// call made with the ctx passed to fn joins that transaction. If fn
	// returns an error the transaction is aborted and the error returned.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoUnitOfWork implements UnitOfWork over MongoDB sessions.
type MongoUnitOfWork struct {
	Client *mongo.Client
}

// NewUnitOfWork returns a UnitOfWork bound to the global Mongo client.
func NewUnitOfWork() UnitOfWork {
	return &MongoUnitOfWork{Client: MongoClient}
}

func (u *MongoUnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := u.Client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return fmt.Errorf("could not start transaction: %w", err)
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
