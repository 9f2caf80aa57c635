package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tridium-ingest/internal/config"
	"github.com/tridium-ingest/internal/models"
)

// MongoStore is the MongoDB-backed dataset store.
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
}

type CollectionNames struct {
	Datasets     string
	ImportErrors string
}

var Collections = CollectionNames{
	Datasets:     "datasets",
	ImportErrors: "import_errors",
}

// NewMongoStore connects, pings and prepares the dataset collections.
func NewMongoStore(cfg *config.DatabaseConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(cfg.GetMongoURI())

	if cfg.Username != "" && cfg.Password != "" {
		authDB := cfg.AuthDB
		if authDB == "" {
			authDB = "admin"
		}
		clientOpts.SetAuth(options.Credential{
			Username:   cfg.Username,
			Password:   cfg.Password,
			AuthSource: authDB,
		})
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(cfg.Database)

	if err := createIndexes(ctx, database); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return &MongoStore{
		client:   client,
		database: database,
	}, nil
}

func createIndexes(ctx context.Context, database *mongo.Database) error {
	datasetColl := database.Collection(Collections.Datasets)
	datasetIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "source_file_name", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "imported_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "format", Value: 1}},
		},
	}
	if _, err := datasetColl.Indexes().CreateMany(ctx, datasetIndexes); err != nil {
		return err
	}

	errColl := database.Collection(Collections.ImportErrors)
	errIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "file_name", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	_, err := errColl.Indexes().CreateMany(ctx, errIndexes)
	return err
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Add(ctx context.Context, dataset *models.ImportedDataset) error {
	collection := s.database.Collection(Collections.Datasets)
	_, err := collection.InsertOne(ctx, dataset)
	return err
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.ImportedDataset, error) {
	collection := s.database.Collection(Collections.Datasets)

	var dataset models.ImportedDataset
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&dataset)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}

// GetByFileName returns the most recent dataset imported from fileName.
func (s *MongoStore) GetByFileName(ctx context.Context, fileName string) (*models.ImportedDataset, error) {
	collection := s.database.Collection(Collections.Datasets)

	opts := options.FindOne().SetSort(bson.D{{Key: "imported_at", Value: -1}})

	var dataset models.ImportedDataset
	err := collection.FindOne(ctx, bson.M{"source_file_name": fileName}, opts).Decode(&dataset)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (s *MongoStore) List(ctx context.Context, page, limit int64) (*models.PaginatedDatasets, error) {
	collection := s.database.Collection(Collections.Datasets)

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	skip := (page - 1) * limit

	findOptions := options.Find().
		SetSort(bson.D{{Key: "imported_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var data []models.ImportedDataset
	if err := cursor.All(ctx, &data); err != nil {
		return nil, err
	}

	totalPages := total / limit
	if total%limit > 0 {
		totalPages++
	}

	return &models.PaginatedDatasets{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *MongoStore) IsFileImported(ctx context.Context, fileName string) (bool, error) {
	collection := s.database.Collection(Collections.Datasets)

	count, err := collection.CountDocuments(ctx, bson.M{"source_file_name": fileName})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoStore) SaveImportError(ctx context.Context, importErr *models.ImportError) error {
	collection := s.database.Collection(Collections.ImportErrors)
	_, err := collection.InsertOne(ctx, importErr)
	return err
}

func (s *MongoStore) ImportErrors(ctx context.Context, fileName string) ([]models.ImportError, error) {
	collection := s.database.Collection(Collections.ImportErrors)

	cursor, err := collection.Find(ctx, bson.M{"file_name": fileName})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var errs []models.ImportError
	if err := cursor.All(ctx, &errs); err != nil {
		return nil, err
	}
	return errs, nil
}
