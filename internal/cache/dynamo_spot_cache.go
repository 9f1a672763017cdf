package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidewidget/internal/models"
)

// DynamoDBClient is the subset of the DynamoDB API the spot cache uses
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoSpotCache handles caching fetched spot conditions in DynamoDB
type DynamoSpotCache struct {
	client    DynamoDBClient
	tableName string
	ttl       time.Duration
	clock     clock
}

func NewDynamoSpotCache(client DynamoDBClient, tableName string, ttl time.Duration) *DynamoSpotCache {
	return &DynamoSpotCache{
		client:    client,
		tableName: tableName,
		ttl:       ttl,
		clock:     realClock{},
	}
}

// GetSpot retrieves cached conditions for a spot and date. Expired records
// are reported as a miss.
func (c *DynamoSpotCache) GetSpot(ctx context.Context, spotID string, date time.Time) (*models.SpotRecord, error) {
	dateStr := date.Format("2006-01-02")

	input := &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"spotId": &types.AttributeValueMemberS{Value: spotID},
			"date":   &types.AttributeValueMemberS{Value: dateStr},
		},
	}

	result, err := c.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("getting spot from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var record models.SpotRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling spot record: %w", err)
	}

	if c.clock.Now().Unix() >= record.TTL {
		log.Debug().
			Str("spot_id", spotID).
			Str("date", dateStr).
			Msg("Cache expired")
		return nil, nil
	}

	return &record, nil
}

// SaveSpot stores a spot record with a fresh TTL
func (c *DynamoSpotCache) SaveSpot(ctx context.Context, record models.SpotRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid spot record: %w", err)
	}

	now := c.clock.Now().Unix()
	record.LastUpdated = now
	record.TTL = now + int64(c.ttl.Seconds())

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling spot record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      item,
	}

	if _, err := c.client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("putting spot in DynamoDB: %w", err)
	}

	log.Debug().
		Str("spot_id", record.SpotID).
		Str("date", record.Date).
		Msg("Saved spot to cache")

	return nil
}
