package dynamodb

import (
	"context"
	"fmt"
	"time"

	"hippo/application/ports"
	"hippo/domain/core/entities"
	"hippo/domain/core/valueobjects"
	pkgerrors "hippo/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// sortableTime is RFC3339 with fixed-width nanoseconds, so sort keys order
// lexically in time order
const sortableTime = "2006-01-02T15:04:05.000000000Z"

// noteItem represents the DynamoDB item structure for a note
type noteItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	NoteID     string `dynamodbav:"NoteID"`
	AccountID  string `dynamodbav:"AccountID"`
	Content    string `dynamodbav:"Content"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

// NoteRepository implements ports.NoteRepository using DynamoDB
type NoteRepository struct {
	*Store
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(store *Store) *NoteRepository {
	return &NoteRepository{Store: store}
}

func notePartition(accountID string) string {
	return "ACCOUNT#" + accountID
}

func noteSortKey(createdAt time.Time, noteID string) string {
	return fmt.Sprintf("NOTE#%s#%s", createdAt.UTC().Format(sortableTime), noteID)
}

// Create inserts a note
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	item := noteItem{
		PK:         notePartition(note.AccountID().String()),
		SK:         noteSortKey(note.CreatedAt(), note.ID().String()),
		EntityType: "NOTE",
		NoteID:     note.ID().String(),
		AccountID:  note.AccountID().String(),
		Content:    note.Content().String(),
		CreatedAt:  note.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt:  note.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal note", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return classifyError("create note", err)
	}
	return nil
}

// ListByAccount returns the account's notes, newest first
func (r *NoteRepository) ListByAccount(ctx context.Context, accountID valueobjects.AccountID) ([]*entities.Note, error) {
	keyEx := expression.Key("PK").Equal(expression.Value(notePartition(accountID.String()))).
		And(expression.Key("SK").BeginsWith("NOTE#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyEx).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build note query", err)
	}

	notes := []*entities.Note{}
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ScanIndexForward:          aws.Bool(false),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, classifyError("list notes", err)
		}

		var items []noteItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, pkgerrors.NewDatabaseError("unmarshal notes", err)
		}
		for _, item := range items {
			note, err := item.toEntity()
			if err != nil {
				return nil, err
			}
			notes = append(notes, note)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return notes, nil
}

func (item noteItem) toEntity() (*entities.Note, error) {
	id, err := valueobjects.NewNoteIDFromString(item.NoteID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode note", err)
	}
	accountID, err := valueobjects.NewAccountIDFromString(item.AccountID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode note", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode note", fmt.Errorf("created at: %w", err))
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		updatedAt = createdAt
	}

	return entities.ReconstructNote(id, accountID, valueobjects.RestoreNoteContent(item.Content), createdAt, updatedAt), nil
}

var _ ports.NoteRepository = (*NoteRepository)(nil)
