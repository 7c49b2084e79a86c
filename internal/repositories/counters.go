package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// adjustGormCounter applies an atomic delta to one counter column.
func adjustGormCounter(db *gorm.DB, model any, id, column string, delta int) error {
	res := db.Model(model).Where("id = ?", id).UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// adjustMongoCounter applies $inc to one counter field.
func adjustMongoCounter(ctx context.Context, coll *mongo.Collection, filter bson.M, field string, delta int) error {
	res, err := coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
