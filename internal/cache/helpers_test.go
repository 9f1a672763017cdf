package cache

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/bbernstein/tidewidget/internal/models"
)

// fakeClock implements a mock time source for testing
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now.UTC()
}

func (f *fakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

var _ DynamoDBClient = (*mockDynamoDBClient)(nil)

type mockDynamoDBClient struct {
	getItemFunc func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	putItemFunc func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

func (m *mockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getItemFunc != nil {
		return m.getItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.putItemFunc != nil {
		return m.putItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func createTestSpotRecord(date time.Time) models.SpotRecord {
	ts := date.Unix()
	height := 1.5
	kind := "LOW"
	return models.NewSpotRecord(models.SpotConditions{
		Spot:   models.Spot{ID: "spot-1", Name: "Pleasure Point"},
		Tides:  []models.TideEvent{{Timestamp: &ts, Height: &height, Type: &kind}},
		Rating: &models.SpotRating{Key: "FAIR", Value: 2.6, Text: "Fair"},
	}, date)
}
