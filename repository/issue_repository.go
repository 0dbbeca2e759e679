package repository

import (
	"context"
	"time"

	"civicreport-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 10 * time.Second

// IssueRepository wraps the issues collection.
type IssueRepository struct {
	col *mongo.Collection
}

func NewIssueRepository(db *mongo.Database) *IssueRepository {
	return &IssueRepository{col: db.Collection("issues")}
}

// Insert stores a new issue and returns its ID.
func (r *IssueRepository) Insert(ctx context.Context, issue *models.Issue) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	res, err := r.col.InsertOne(ctx, issue)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// CountAll returns the total number of issues.
func (r *IssueRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}

// CountByStatus returns the number of issues in a given status.
func (r *IssueRepository) CountByStatus(ctx context.Context, status models.IssueStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"status": status})
}

// ListOptions filters and paginates a listing.
type ListOptions struct {
	Category string
	Status   string
	Page     int
	Limit    int
}

// List returns a page of issues, newest first, plus the total match count.
func (r *IssueRepository) List(ctx context.Context, opts ListOptions) ([]models.Issue, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 || opts.Limit > 100 {
		opts.Limit = 10
	}

	filter := bson.M{}
	if opts.Category != "" && opts.Category != "all" {
		filter["category"] = opts.Category
	}
	if opts.Status != "" && opts.Status != "all" {
		filter["status"] = opts.Status
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cursor, err := r.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

// ListByUser returns all issues created by one user, newest first.
func (r *IssueRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.M{"created_by": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// Recent returns the latest issues for the map view.
func (r *IssueRepository) Recent(ctx context.Context, limit int) ([]models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}
