package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mistri/db"
	"mistri/errinfo"
	"mistri/models"
)

// ErrNotClaimed is returned by ClaimAcceptance when the conditional
// write matched nothing: the project is not open or another bid has
// already been accepted.
var ErrNotClaimed = errors.New("project acceptance not claimed")

const readRetries = 2

// Mongo binds Storage to the MongoDB collections.
type Mongo struct {
	Users    *mongo.Collection
	Projects *mongo.Collection
	Bids     *mongo.Collection
}

func NewMongo() *Mongo {
	return &Mongo{
		Users:    db.UserCollection,
		Projects: db.ProjectsCollection,
		Bids:     db.BidsCollection,
	}
}

// ---- projects ----

func (m *Mongo) CreateProject(ctx context.Context, p *models.Project) error {
	if _, err := m.Projects.InsertOne(ctx, p); err != nil {
		return errinfo.Unavailablef("could not save project: %v", err)
	}
	return nil
}

func (m *Mongo) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	var p models.Project
	err := m.findOneRetry(ctx, m.Projects, bson.M{"projectid": projectID}, &p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errinfo.NotFoundf("%s", errinfo.MsgProjectNotFound)
		}
		return nil, errinfo.Unavailablef("could not load project: %v", err)
	}
	return &p, nil
}

func (m *Mongo) UpdateProjectFields(ctx context.Context, projectID string, fields map[string]any) error {
	res, err := m.Projects.UpdateOne(ctx, bson.M{"projectid": projectID}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return errinfo.Unavailablef("could not update project: %v", err)
	}
	if res.MatchedCount == 0 {
		return errinfo.NotFoundf("%s", errinfo.MsgProjectNotFound)
	}
	return nil
}

func (m *Mongo) DeleteProject(ctx context.Context, projectID string) error {
	res, err := m.Projects.DeleteOne(ctx, bson.M{"projectid": projectID})
	if err != nil {
		return errinfo.Unavailablef("could not delete project: %v", err)
	}
	if res.DeletedCount == 0 {
		return errinfo.NotFoundf("%s", errinfo.MsgProjectNotFound)
	}
	return nil
}

func (m *Mongo) ListProjects(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Location != "" {
		query["location"] = filter.Location
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	opts := db.OptionsFindLatest(limit).SetSort(bson.M{"createdAt": -1})
	return m.findProjects(ctx, query, opts)
}

func (m *Mongo) ListUserProjects(ctx context.Context, uid string) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	return m.findProjects(ctx, bson.M{"postedBy": uid}, opts)
}

func (m *Mongo) findProjects(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Project, error) {
	cursor, err := m.Projects.Find(ctx, query, opts)
	if err != nil {
		return nil, errinfo.Unavailablef("could not query projects: %v", err)
	}
	defer cursor.Close(ctx)

	var results []models.Project
	if err := cursor.All(ctx, &results); err != nil {
		return nil, errinfo.Unavailablef("could not decode projects: %v", err)
	}
	if results == nil {
		results = []models.Project{}
	}
	return results, nil
}

func (m *Mongo) ClaimAcceptance(ctx context.Context, projectID, bidID, contractorID string, at time.Time) error {
	filter := bson.M{
		"projectid":     projectID,
		"status":        models.ProjectOpen,
		"acceptedBidId": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"status":               models.ProjectInProgress,
		"acceptedBidId":        bidID,
		"acceptedContractorId": contractorID,
		"updatedAt":            at,
	}}
	res, err := m.Projects.UpdateOne(ctx, filter, update)
	if err != nil {
		return errinfo.Unavailablef("could not update project: %v", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotClaimed
	}
	return nil
}

func (m *Mongo) ReleaseAcceptance(ctx context.Context, projectID, bidID string, at time.Time) error {
	filter := bson.M{"projectid": projectID, "acceptedBidId": bidID}
	update := bson.M{
		"$set":   bson.M{"status": models.ProjectOpen, "updatedAt": at},
		"$unset": bson.M{"acceptedBidId": "", "acceptedContractorId": ""},
	}
	if _, err := m.Projects.UpdateOne(ctx, filter, update); err != nil {
		return errinfo.Unavailablef("could not revert project: %v", err)
	}
	return nil
}

// ---- bids ----

func (m *Mongo) CreateBid(ctx context.Context, b *models.Bid) error {
	if _, err := m.Bids.InsertOne(ctx, b); err != nil {
		return errinfo.Unavailablef("could not save bid: %v", err)
	}
	return nil
}

func (m *Mongo) GetBid(ctx context.Context, bidID string) (*models.Bid, error) {
	var b models.Bid
	err := m.findOneRetry(ctx, m.Bids, bson.M{"bidid": bidID}, &b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errinfo.NotFoundf("%s", errinfo.MsgBidNotFound)
		}
		return nil, errinfo.Unavailablef("could not load bid: %v", err)
	}
	return &b, nil
}

func (m *Mongo) UpdateBidStatus(ctx context.Context, bidID string, status models.BidStatus, at time.Time) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": at}}
	res, err := m.Bids.UpdateOne(ctx, bson.M{"bidid": bidID}, update)
	if err != nil {
		return errinfo.Unavailablef("could not update bid: %v", err)
	}
	if res.MatchedCount == 0 {
		return errinfo.NotFoundf("%s", errinfo.MsgBidNotFound)
	}
	return nil
}

func (m *Mongo) DeleteBid(ctx context.Context, bidID string) error {
	res, err := m.Bids.DeleteOne(ctx, bson.M{"bidid": bidID})
	if err != nil {
		return errinfo.Unavailablef("could not delete bid: %v", err)
	}
	if res.DeletedCount == 0 {
		return errinfo.NotFoundf("%s", errinfo.MsgBidNotFound)
	}
	return nil
}

// ListBidsForProject returns bids newest first; selection among them
// is manual by the owner.
func (m *Mongo) ListBidsForProject(ctx context.Context, projectID string) ([]models.Bid, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	return m.findBids(ctx, bson.M{"projectId": projectID}, opts)
}

func (m *Mongo) ListContractorBids(ctx context.Context, contractorID string) ([]models.Bid, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	return m.findBids(ctx, bson.M{"contractorId": contractorID}, opts)
}

func (m *Mongo) CountBidsForProject(ctx context.Context, projectID string) (int64, error) {
	n, err := m.Bids.CountDocuments(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, errinfo.Unavailablef("could not count bids: %v", err)
	}
	return n, nil
}

func (m *Mongo) findBids(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Bid, error) {
	cursor, err := m.Bids.Find(ctx, query, opts)
	if err != nil {
		return nil, errinfo.Unavailablef("could not query bids: %v", err)
	}
	defer cursor.Close(ctx)

	var results []models.Bid
	if err := cursor.All(ctx, &results); err != nil {
		return nil, errinfo.Unavailablef("could not decode bids: %v", err)
	}
	if results == nil {
		results = []models.Bid{}
	}
	return results, nil
}

// ---- users ----

func (m *Mongo) GetUser(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	err := m.findOneRetry(ctx, m.Users, bson.M{"userid": uid}, &u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errinfo.NotFoundf("%s", errinfo.MsgWrongUser)
		}
		return nil, errinfo.Unavailablef("could not load user: %v", err)
	}
	return &u, nil
}

func (m *Mongo) UpdateUserFields(ctx context.Context, uid string, fields map[string]any) error {
	res, err := m.Users.UpdateOne(ctx, bson.M{"userid": uid}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return errinfo.Unavailablef("could not update user: %v", err)
	}
	if res.MatchedCount == 0 {
		return errinfo.NotFoundf("%s", errinfo.MsgWrongUser)
	}
	return nil
}

// findOneRetry retries transient read failures a bounded number of
// times. Not-found is returned immediately.
func (m *Mongo) findOneRetry(ctx context.Context, coll *mongo.Collection, filter bson.M, out any) error {
	var err error
	for attempt := 0; attempt <= readRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}
		err = coll.FindOne(ctx, filter).Decode(out)
		if err == nil || errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
	}
	return err
}
