package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"steam-profile-bot/internal/domain"
)

const (
	skPrefixLookup = "LOOKUP#"
	ttlDuration    = 30 * 24 * time.Hour // 30-day TTL
	maxInputLength = 256
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Client wraps a DynamoDB table holding the per-chat lookup log.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

// chatPK returns the DynamoDB partition key for a chat.
func chatPK(chatID string) string {
	return "CHAT#" + chatID
}

func lookupSK(ts time.Time) string {
	return skPrefixLookup + ts.UTC().Format(time.RFC3339Nano)
}

// RecordLookup appends one lookup outcome to the chat's log.
func (c *Client) RecordLookup(ctx context.Context, chatID, input, steamID, outcome string) error {
	if strings.TrimSpace(chatID) == "" {
		return errors.New("repository: RecordLookup: chat id is required")
	}

	rec := c.NewLookupRecord(chatID, input, steamID, outcome)
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.tableName),
		Item:                lookupItem(rec),
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		return fmt.Errorf("repository: RecordLookup: %w", err)
	}
	return nil
}

// RecentLookups returns up to limit lookups for a chat, newest first.
func (c *Client) RecentLookups(ctx context.Context, chatID string, limit int) ([]domain.LookupRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	out, err := c.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: chatPK(chatID)},
			":prefix": &types.AttributeValueMemberS{Value: skPrefixLookup},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("repository: RecentLookups query: %w", err)
	}

	records := make([]domain.LookupRecord, 0, len(out.Items))
	for _, item := range out.Items {
		rec, err := itemToLookup(item)
		if err != nil {
			return nil, fmt.Errorf("repository: RecentLookups unmarshal: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// NewLookupRecord constructs a LookupRecord with PK/SK/TTL set from chatID
// and the current time. Overlong input is cut.
func (c *Client) NewLookupRecord(chatID, input, steamID, outcome string) domain.LookupRecord {
	now := c.now().UTC()
	input = strings.TrimSpace(input)
	if r := []rune(input); len(r) > maxInputLength {
		input = string(r[:maxInputLength])
	}
	return domain.LookupRecord{
		PK:        chatPK(chatID),
		SK:        lookupSK(now),
		LookupID:  uuid.NewString(),
		ChatID:    chatID,
		Input:     input,
		SteamID:   steamID,
		Outcome:   outcome,
		CreatedAt: now.Format(time.RFC3339),
		TTL:       now.Add(ttlDuration).Unix(),
	}
}

func lookupItem(rec domain.LookupRecord) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"PK":        &types.AttributeValueMemberS{Value: rec.PK},
		"SK":        &types.AttributeValueMemberS{Value: rec.SK},
		"lookupId":  &types.AttributeValueMemberS{Value: rec.LookupID},
		"chatId":    &types.AttributeValueMemberS{Value: rec.ChatID},
		"input":     &types.AttributeValueMemberS{Value: rec.Input},
		"outcome":   &types.AttributeValueMemberS{Value: rec.Outcome},
		"createdAt": &types.AttributeValueMemberS{Value: rec.CreatedAt},
		"ttl":       &types.AttributeValueMemberN{Value: strconv.FormatInt(rec.TTL, 10)},
	}
	if rec.SteamID != "" {
		item["steamId"] = &types.AttributeValueMemberS{Value: rec.SteamID}
	}
	return item
}

// itemToLookup converts a DynamoDB attribute map to a LookupRecord.
func itemToLookup(item map[string]types.AttributeValue) (domain.LookupRecord, error) {
	pk, err := strAttr(item, "PK")
	if err != nil {
		return domain.LookupRecord{}, err
	}
	sk, err := strAttr(item, "SK")
	if err != nil {
		return domain.LookupRecord{}, err
	}
	outcome, err := strAttr(item, "outcome")
	if err != nil {
		return domain.LookupRecord{}, err
	}
	input, _ := strAttr(item, "input")         // allow empty
	lookupID, _ := strAttr(item, "lookupId")   // allow empty
	chatID, _ := strAttr(item, "chatId")       // allow empty
	steamID, _ := strAttr(item, "steamId")     // absent when unresolved
	createdAt, _ := strAttr(item, "createdAt") // allow empty
	ttl, _ := int64Attr(item, "ttl")

	return domain.LookupRecord{
		PK:        pk,
		SK:        sk,
		LookupID:  lookupID,
		ChatID:    chatID,
		Input:     input,
		SteamID:   steamID,
		Outcome:   outcome,
		CreatedAt: createdAt,
		TTL:       ttl,
	}, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

func int64Attr(item map[string]types.AttributeValue, key string) (int64, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("repository: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
