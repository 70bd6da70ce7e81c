package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/geo"
	"pintperfect/pub-service/internal/app/pubs/rating"
	"pintperfect/pub-service/internal/app/pubs/repository"
	"pintperfect/pub-service/internal/app/pubs/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pubServiceDeps struct {
	pubRepo    *mocks.MockPubRepository
	ratingRepo *mocks.MockRatingRepository
	photoRepo  *mocks.MockPhotoRepository
	cache      *mocks.MockRatingCache
	publisher  *mocks.MockMessagePublisher
}

func newPubService(withCache bool) (*PubService, *pubServiceDeps) {
	deps := &pubServiceDeps{
		pubRepo:    new(mocks.MockPubRepository),
		ratingRepo: new(mocks.MockRatingRepository),
		photoRepo:  new(mocks.MockPhotoRepository),
		cache:      new(mocks.MockRatingCache),
		publisher:  &mocks.MockMessagePublisher{Messages: make([][]byte, 0)},
	}

	var cache repository.RatingCache
	if withCache {
		cache = deps.cache
	}
	return NewPubService(deps.pubRepo, deps.ratingRepo, deps.photoRepo, cache, deps.publisher, time.Second), deps
}

func floatPtr(f float64) *float64 {
	return &f
}

var (
	dublinPub = entity.Pub{ID: "pub-dublin", Name: "The Guinness Pub", Address: "Dublin", Latitude: 53.349805, Longitude: -6.26031}
	galwayPub = entity.Pub{ID: "pub-galway", Name: "Emerald Isle Bar", Address: "Galway", Latitude: 53.270668, Longitude: -9.056791}
)

func TestCreatePub_Success(t *testing.T) {
	svc, deps := newPubService(false)
	ctx := context.Background()
	req := &entity.CreatePubRequest{
		Name:      "  The Guinness Pub ",
		Address:   "123 Dublin St, Dublin",
		Latitude:  floatPtr(53.349805),
		Longitude: floatPtr(-6.26031),
	}

	deps.pubRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Pub")).Return(nil)
	deps.publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.CreatePub(ctx, req)

	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "The Guinness Pub", result.Name)
	assert.Nil(t, result.AverageRating)
	assert.Equal(t, 0, result.RatingCount)
	assert.Equal(t, rating.NoRatingDisplay, result.DisplayRating)
	require.Len(t, deps.publisher.Messages, 1)
	assert.Contains(t, string(deps.publisher.Messages[0]), entity.EventPubCreated)
}

func TestCreatePub_ZeroCoordinatesAllowed(t *testing.T) {
	svc, deps := newPubService(false)
	req := &entity.CreatePubRequest{Name: "Null Island", Address: "Gulf of Guinea", Latitude: floatPtr(0), Longitude: floatPtr(0)}

	deps.pubRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	deps.publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.CreatePub(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Latitude)
}

func TestCreatePub_InvalidCoordinates(t *testing.T) {
	svc, deps := newPubService(false)
	req := &entity.CreatePubRequest{Name: "Nowhere", Address: "Nowhere", Latitude: floatPtr(91), Longitude: floatPtr(0)}

	result, err := svc.CreatePub(context.Background(), req)

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrValidation))
	deps.pubRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePub_KafkaErrorIgnored(t *testing.T) {
	svc, deps := newPubService(false)
	req := &entity.CreatePubRequest{Name: "Pub", Address: "Street", Latitude: floatPtr(53), Longitude: floatPtr(-6)}

	deps.pubRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	deps.publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("kafka down"))

	result, err := svc.CreatePub(context.Background(), req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestGetPub_WithRatingAndPhotos(t *testing.T) {
	svc, deps := newPubService(false)
	pub := dublinPub
	photos := []entity.Photo{{ID: "photo-1", URL: "/uploads/a.jpg", UserID: "user-1", PubID: &pub.ID}}

	deps.pubRepo.On("GetByID", mock.Anything, "pub-dublin").Return(&pub, nil)
	deps.ratingRepo.On("AggregateByPubIDs", mock.Anything, []string{"pub-dublin"}).
		Return(map[string]rating.Aggregate{"pub-dublin": rating.Mean([]float64{9.5, 8, 10})}, nil)
	deps.photoRepo.On("ListByPub", mock.Anything, "pub-dublin").Return(photos, nil)

	result, err := svc.GetPub(context.Background(), "pub-dublin")

	require.NoError(t, err)
	require.NotNil(t, result.AverageRating)
	assert.InDelta(t, 9.1666, *result.AverageRating, 0.001)
	assert.Equal(t, 3, result.RatingCount)
	assert.Equal(t, "9.2", result.DisplayRating)
	assert.Len(t, result.Photos, 1)
}

func TestGetPub_NotFound(t *testing.T) {
	svc, deps := newPubService(false)

	deps.pubRepo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrPubNotFound)

	result, err := svc.GetPub(context.Background(), "missing")

	assert.Nil(t, result)
	assert.Equal(t, ErrPubNotFound, err)
}

func TestListPubs_SortByRating(t *testing.T) {
	svc, deps := newPubService(false)
	pubs := []entity.Pub{{ID: "unrated"}, {ID: "good"}, {ID: "best"}}

	deps.pubRepo.On("List", mock.Anything).Return(pubs, nil)
	deps.ratingRepo.On("AggregateByPubIDs", mock.Anything, []string{"unrated", "good", "best"}).
		Return(map[string]rating.Aggregate{
			"unrated": {},
			"good":    {Average: floatPtr(7), Count: 2},
			"best":    {Average: floatPtr(9), Count: 1},
		}, nil)

	result, err := svc.ListPubs(context.Background(), entity.ListPubsRequest{SortByRating: true})

	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "best", result[0].ID)
	assert.Equal(t, "good", result[1].ID)
	assert.Equal(t, "unrated", result[2].ID)
}

// ===================== FindNearby =====================

func TestFindNearby_DublinWithinTwoKm(t *testing.T) {
	svc, deps := newPubService(false)
	req := entity.NearbyRequest{Center: geo.Point{Lat: 53.3498, Lng: -6.2603}, RadiusKm: 2}

	deps.pubRepo.On("FindInBoundingBox", mock.Anything, mock.AnythingOfType("geo.BoundingBox")).
		Return([]entity.Pub{dublinPub}, nil)
	deps.ratingRepo.On("AggregateByPubIDs", mock.Anything, []string{"pub-dublin"}).
		Return(map[string]rating.Aggregate{"pub-dublin": rating.Mean([]float64{9.5, 8, 10})}, nil)

	result, err := svc.FindNearby(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "pub-dublin", result[0].ID)
	assert.Equal(t, 3, result[0].RatingCount)
	assert.Equal(t, "9.2", result[0].DisplayRating)
	require.NotNil(t, result[0].DistanceKm)
	assert.Less(t, *result[0].DistanceKm, 0.1)
}

func TestFindNearby_PassesBoundingBoxToRepository(t *testing.T) {
	svc, deps := newPubService(false)
	center := geo.Point{Lat: 53.3498, Lng: -6.2603}

	deps.pubRepo.On("FindInBoundingBox", mock.Anything, mock.MatchedBy(func(box geo.BoundingBox) bool {
		return box.Center == center && box.RadiusKm == 2 &&
			box.MinLat < center.Lat && box.MaxLat > center.Lat
	})).Return([]entity.Pub{}, nil)

	result, err := svc.FindNearby(context.Background(), entity.NearbyRequest{Center: center, RadiusKm: 2})

	require.NoError(t, err)
	assert.Empty(t, result)
	deps.ratingRepo.AssertNotCalled(t, "AggregateByPubIDs", mock.Anything, mock.Anything)
}

func TestFindNearby_DropsCandidatesOutsideBox(t *testing.T) {
	svc, deps := newPubService(false)
	req := entity.NearbyRequest{Center: geo.Point{Lat: 53.3498, Lng: -6.2603}, RadiusKm: 2}

	deps.pubRepo.On("FindInBoundingBox", mock.Anything, mock.Anything).
		Return([]entity.Pub{dublinPub, galwayPub}, nil)
	deps.ratingRepo.On("AggregateByPubIDs", mock.Anything, []string{"pub-dublin"}).
		Return(map[string]rating.Aggregate{"pub-dublin": {}}, nil)

	result, err := svc.FindNearby(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "pub-dublin", result[0].ID)
}

func TestFindNearby_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  entity.NearbyRequest
	}{
		{"zero radius", entity.NearbyRequest{Center: geo.Point{Lat: 53, Lng: -6}, RadiusKm: 0}},
		{"negative radius", entity.NearbyRequest{Center: geo.Point{Lat: 53, Lng: -6}, RadiusKm: -1}},
		{"latitude out of range", entity.NearbyRequest{Center: geo.Point{Lat: 91, Lng: -6}, RadiusKm: 5}},
		{"longitude out of range", entity.NearbyRequest{Center: geo.Point{Lat: 53, Lng: 181}, RadiusKm: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newPubService(false)

			result, err := svc.FindNearby(context.Background(), tt.req)

			assert.Nil(t, result)
			assert.True(t, errors.Is(err, ErrValidation))
			deps.pubRepo.AssertNotCalled(t, "FindInBoundingBox", mock.Anything, mock.Anything)
		})
	}
}

func TestFindNearby_RepositoryErrorAborts(t *testing.T) {
	svc, deps := newPubService(false)

	deps.pubRepo.On("FindInBoundingBox", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	result, err := svc.FindNearby(context.Background(), entity.NearbyRequest{Center: geo.Point{Lat: 53, Lng: -6}, RadiusKm: 5})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestFindNearby_AggregateErrorAborts(t *testing.T) {
	svc, deps := newPubService(false)
	req := entity.NearbyRequest{Center: geo.Point{Lat: 53.3498, Lng: -6.2603}, RadiusKm: 2}

	deps.pubRepo.On("FindInBoundingBox", mock.Anything, mock.Anything).Return([]entity.Pub{dublinPub}, nil)
	deps.ratingRepo.On("AggregateByPubIDs", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	result, err := svc.FindNearby(context.Background(), req)

	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestFindNearby_StrictDropsBoxCorners(t *testing.T) {
	svc, deps := newPubService(false)
	center := geo.Point{Lat: 0, Lng: 0}
	inside := entity.Pub{ID: "inside", Latitude: 0.05, Longitude: 0}
	corner := entity.Pub{ID: "corner", Latitude: 0.09, Longitude: 0.09}

	deps.pubRepo.On("FindInBoundingBox", mock.Anything, mock.Anything).Return([]entity.Pub{inside, corner}, nil)
	deps.ratingRepo.On("AggregateByPubIDs", mock.Anything, []string{"inside", "corner"}).
		Return(map[string]rating.Aggregate{}, nil)
	deps.ratingRepo.On("AggregateByPubIDs", mock.Anything, []string{"inside"}).
		Return(map[string]rating.Aggregate{}, nil)

	loose, err := svc.FindNearby(context.Background(), entity.NearbyRequest{Center: center, RadiusKm: 10})
	require.NoError(t, err)
	assert.Len(t, loose, 2)

	strict, err := svc.FindNearby(context.Background(), entity.NearbyRequest{Center: center, RadiusKm: 10, Strict: true})
	require.NoError(t, err)
	require.Len(t, strict, 1)
	assert.Equal(t, "inside", strict[0].ID)
}

func TestFindNearby_MissingAggregateMeansNoRatings(t *testing.T) {
	svc, deps := newPubService(false)

	deps.pubRepo.On("FindInBoundingBox", mock.Anything, mock.Anything).Return([]entity.Pub{dublinPub}, nil)
	deps.ratingRepo.On("AggregateByPubIDs", mock.Anything, mock.Anything).Return(map[string]rating.Aggregate{}, nil)

	result, err := svc.FindNearby(context.Background(), entity.NearbyRequest{Center: dublinPub.Location(), RadiusKm: 1})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Nil(t, result[0].AverageRating)
	assert.Equal(t, rating.NoRatingDisplay, result[0].DisplayRating)
}

func TestFindNearby_UsesRatingCache(t *testing.T) {
	svc, deps := newPubService(true)
	cached := rating.Aggregate{Average: floatPtr(8.5), Count: 2}
	fresh := rating.Aggregate{Average: floatPtr(9), Count: 1}
	pubs := []entity.Pub{dublinPub, {ID: "pub-porter", Latitude: 53.345367, Longitude: -6.263419}}

	deps.pubRepo.On("FindInBoundingBox", mock.Anything, mock.Anything).Return(pubs, nil)
	deps.cache.On("Get", mock.Anything, "pub-dublin").Return(repository.CachedRating{Aggregate: cached, Found: true, Version: 1}, nil)
	deps.cache.On("Get", mock.Anything, "pub-porter").Return(repository.CachedRating{Version: 3}, nil)
	deps.ratingRepo.On("AggregateByPubIDs", mock.Anything, []string{"pub-porter"}).
		Return(map[string]rating.Aggregate{"pub-porter": fresh}, nil)
	deps.cache.On("Set", mock.Anything, "pub-porter", int64(3), fresh).Return(nil)

	result, err := svc.FindNearby(context.Background(), entity.NearbyRequest{Center: dublinPub.Location(), RadiusKm: 2})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, 8.5, *result[0].AverageRating)
	assert.Equal(t, 9.0, *result[1].AverageRating)
	deps.cache.AssertExpectations(t)
}

func TestFindNearby_CacheErrorFallsBackToDatabase(t *testing.T) {
	svc, deps := newPubService(true)
	agg := rating.Aggregate{Average: floatPtr(7), Count: 1}

	deps.pubRepo.On("FindInBoundingBox", mock.Anything, mock.Anything).Return([]entity.Pub{dublinPub}, nil)
	deps.cache.On("Get", mock.Anything, "pub-dublin").Return(repository.CachedRating{}, errors.New("redis down"))
	deps.ratingRepo.On("AggregateByPubIDs", mock.Anything, []string{"pub-dublin"}).
		Return(map[string]rating.Aggregate{"pub-dublin": agg}, nil)
	deps.cache.On("Set", mock.Anything, "pub-dublin", int64(0), agg).Return(errors.New("redis down"))

	result, err := svc.FindNearby(context.Background(), entity.NearbyRequest{Center: dublinPub.Location(), RadiusKm: 1})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "7.0", result[0].DisplayRating)
}

// ===================== Update / Delete =====================

func TestUpdatePub_PartialFields(t *testing.T) {
	svc, deps := newPubService(false)
	pub := dublinPub
	newName := "The Guinness Storehouse"

	deps.pubRepo.On("GetByID", mock.Anything, "pub-dublin").Return(&pub, nil)
	deps.pubRepo.On("Update", mock.Anything, mock.AnythingOfType("*entity.Pub")).Return(nil)
	deps.ratingRepo.On("AggregateByPubIDs", mock.Anything, []string{"pub-dublin"}).
		Return(map[string]rating.Aggregate{"pub-dublin": {}}, nil)

	result, err := svc.UpdatePub(context.Background(), "pub-dublin", &entity.UpdatePubRequest{Name: &newName})

	require.NoError(t, err)
	assert.Equal(t, newName, result.Name)
	assert.Equal(t, dublinPub.Address, result.Address)
	assert.Equal(t, dublinPub.Latitude, result.Latitude)
}

func TestUpdatePub_InvalidLongitude(t *testing.T) {
	svc, deps := newPubService(false)
	pub := dublinPub

	deps.pubRepo.On("GetByID", mock.Anything, "pub-dublin").Return(&pub, nil)

	_, err := svc.UpdatePub(context.Background(), "pub-dublin", &entity.UpdatePubRequest{Longitude: floatPtr(200)})

	assert.True(t, errors.Is(err, ErrValidation))
	deps.pubRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeletePub_InvalidatesCacheAndPublishes(t *testing.T) {
	svc, deps := newPubService(true)

	deps.pubRepo.On("Delete", mock.Anything, "pub-dublin").Return(nil)
	deps.cache.On("Invalidate", mock.Anything, "pub-dublin").Return(nil)
	deps.publisher.On("PublishMessage", mock.Anything, "pub-dublin", mock.Anything).Return(nil)

	err := svc.DeletePub(context.Background(), "pub-dublin")

	require.NoError(t, err)
	deps.cache.AssertExpectations(t)
	require.Len(t, deps.publisher.Messages, 1)
	assert.Contains(t, string(deps.publisher.Messages[0]), entity.EventPubDeleted)
}

func TestDeletePub_NotFound(t *testing.T) {
	svc, deps := newPubService(false)

	deps.pubRepo.On("Delete", mock.Anything, "missing").Return(repository.ErrPubNotFound)

	err := svc.DeletePub(context.Background(), "missing")

	assert.Equal(t, ErrPubNotFound, err)
	assert.Empty(t, deps.publisher.Messages)
}
