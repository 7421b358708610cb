package dynamodb

import (
	"context"
	"errors"
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
	"go.uber.org/zap"
)

const accountSortKey = "ACCOUNT"

// accountItem represents the DynamoDB item structure for an account.
// The clerk id is the partition key so the conditional put enforces uniqueness.
type accountItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	EntityType    string `dynamodbav:"EntityType"`
	AccountID     string `dynamodbav:"AccountID"`
	ClerkID       string `dynamodbav:"ClerkID"`
	Name          string `dynamodbav:"Name"`
	Email         string `dynamodbav:"Email"`
	AssistantID   string `dynamodbav:"AssistantID"`
	VectorStoreID string `dynamodbav:"VectorStoreID"`
	CreatedAt     string `dynamodbav:"CreatedAt"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
}

// AccountRepository implements ports.AccountRepository using DynamoDB
type AccountRepository struct {
	*Store
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{Store: store}
}

func accountKey(clerkID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "CLERK#" + clerkID},
		"SK": &types.AttributeValueMemberS{Value: accountSortKey},
	}
}

// GetByClerkID retrieves the account for a clerk id
func (r *AccountRepository) GetByClerkID(ctx context.Context, clerkID valueobjects.ClerkID) (*entities.Account, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            accountKey(clerkID.String()),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, classifyError("get account", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("User")
	}

	var item accountItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal account", err)
	}

	return item.toEntity()
}

// Create inserts an account unless one already exists for the clerk id
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	item := accountItem{
		PK:            "CLERK#" + account.ClerkID().String(),
		SK:            accountSortKey,
		EntityType:    "ACCOUNT",
		AccountID:     account.ID().String(),
		ClerkID:       account.ClerkID().String(),
		Name:          account.Name(),
		Email:         account.Email(),
		AssistantID:   account.PersonaID().String(),
		VectorStoreID: account.StoreID().String(),
		CreatedAt:     account.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt:     account.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal account", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("PK").AttributeNotExists()).
		Build()
	if err != nil {
		return pkgerrors.NewDatabaseError("build account condition", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ports.ErrAccountExists
		}
		return classifyError("create account", err)
	}

	r.logger.Debug("Account stored",
		zap.String("accountID", item.AccountID),
		zap.String("clerkID", item.ClerkID),
	)
	return nil
}

func (item accountItem) toEntity() (*entities.Account, error) {
	id, err := valueobjects.NewAccountIDFromString(item.AccountID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode account", err)
	}
	clerkID, err := valueobjects.NewClerkID(item.ClerkID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode account", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode account", fmt.Errorf("created at: %w", err))
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		updatedAt = createdAt
	}

	return entities.ReconstructAccount(
		id,
		clerkID,
		item.Name,
		item.Email,
		valueobjects.NewPersonaID(item.AssistantID),
		valueobjects.NewStoreID(item.VectorStoreID),
		createdAt,
		updatedAt,
	), nil
}

var _ ports.AccountRepository = (*AccountRepository)(nil)
