package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"scan_service/internal/domain"
	"scan_service/internal/domain/entity"
	"scan_service/internal/domain/value"
	"scan_service/pkg/errcodes"
)

// scanDocument is the BSON shape of a scan in the collection. The ObjectID
// grows with insertion time and is used as the listing order.
type scanDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserName    string             `bson:"userName"`
	CarBrand    string             `bson:"carBrand"`
	ScoreNumber int                `bson:"scoreNumber"`
}

func (d scanDocument) toDomain() entity.Scan {
	return entity.Scan{
		ID:          value.ScanID(d.ID.Hex()),
		UserName:    value.UserName(d.UserName),
		CarBrand:    value.CarBrand(d.CarBrand),
		ScoreNumber: d.ScoreNumber,
	}
}

var byInsertion = bson.D{{Key: "_id", Value: 1}} //nolint:gochecknoglobals

type MongoScanRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoScanRepository(client *mongo.Client, database, collection string) *MongoScanRepository {
	return &MongoScanRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

// EnsureIndexes creates the lookup indexes. The pair index is not unique:
// duplicate pairs are tolerated.
func (r *MongoScanRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userName", Value: 1}, {Key: "carBrand", Value: 1}},
			Options: options.Index().SetName("userName_carBrand"),
		},
		{
			Keys:    bson.D{{Key: "carBrand", Value: 1}},
			Options: options.Index().SetName("carBrand"),
		},
	})
	if err != nil {
		return mongoError(err, "failed to create indexes")
	}

	return nil
}

func (r *MongoScanRepository) Insert(ctx context.Context, scan *entity.Scan) error {
	if scan.ID.IsZero() {
		doc := scanDocument{
			ID:          primitive.NewObjectID(),
			UserName:    scan.UserName.String(),
			CarBrand:    scan.CarBrand.String(),
			ScoreNumber: scan.ScoreNumber,
		}

		if _, err := r.collection.InsertOne(ctx, doc); err != nil {
			return mongoError(err, "failed to insert scan")
		}

		scan.ID = value.ScanID(doc.ID.Hex())

		return nil
	}

	oid, err := primitive.ObjectIDFromHex(scan.ID.String())
	if err != nil {
		return domain.WrapError(err, errcodes.InvalidScanID, fmt.Sprintf("invalid scan id %q", scan.ID))
	}

	doc := scanDocument{
		ID:          oid,
		UserName:    scan.UserName.String(),
		CarBrand:    scan.CarBrand.String(),
		ScoreNumber: scan.ScoreNumber,
	}

	_, err = r.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return mongoError(err, "failed to replace scan")
	}

	return nil
}

func (r *MongoScanRepository) FindByUserName(ctx context.Context, userName value.UserName) ([]entity.Scan, error) {
	return r.find(ctx, bson.D{{Key: "userName", Value: userName.String()}})
}

func (r *MongoScanRepository) FindByCarBrand(ctx context.Context, carBrand value.CarBrand) ([]entity.Scan, error) {
	return r.find(ctx, bson.D{{Key: "carBrand", Value: carBrand.String()}})
}

func (r *MongoScanRepository) FindByUserNameAndCarBrand(
	ctx context.Context,
	userName value.UserName,
	carBrand value.CarBrand,
) (entity.Scan, bool, error) {
	filter := bson.D{
		{Key: "userName", Value: userName.String()},
		{Key: "carBrand", Value: carBrand.String()},
	}

	var doc scanDocument

	err := r.collection.FindOne(ctx, filter, options.FindOne().SetSort(byInsertion)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.Scan{}, false, nil
		}

		return entity.Scan{}, false, mongoError(err, "failed to get scan")
	}

	return doc.toDomain(), true, nil
}

func (r *MongoScanRepository) FindAll(ctx context.Context) ([]entity.Scan, error) {
	return r.find(ctx, bson.D{})
}

func (r *MongoScanRepository) Delete(ctx context.Context, scan entity.Scan) error {
	oid, err := primitive.ObjectIDFromHex(scan.ID.String())
	if err != nil {
		return domain.WrapError(err, errcodes.InvalidScanID, fmt.Sprintf("invalid scan id %q", scan.ID))
	}

	if _, err = r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}}); err != nil {
		return mongoError(err, "failed to delete scan")
	}

	return nil
}

func (r *MongoScanRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, mongoError(err, "failed to count scans")
	}

	return count, nil
}

func (r *MongoScanRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return mongoError(err, "failed to ping mongo")
	}

	return nil
}

func (r *MongoScanRepository) find(ctx context.Context, filter bson.D) ([]entity.Scan, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(byInsertion))
	if err != nil {
		return nil, mongoError(err, "failed to find scans")
	}

	var docs []scanDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, mongoError(err, "failed to decode scans")
	}

	result := make([]entity.Scan, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.toDomain())
	}

	return result, nil
}

func mongoError(err error, message string) *domain.AppError {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return domain.WrapError(err, errcodes.StoreUnavailable, message)
	}

	return storeError(err, message)
}
