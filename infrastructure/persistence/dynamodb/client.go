package dynamodb

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "hippo/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// API is the subset of the DynamoDB client used by the repositories
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Store bundles the table handle shared by the repositories
type Store struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// NewStore creates a new Store
func NewStore(client API, tableName string, logger *zap.Logger) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Ping checks that the table is reachable
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return classifyError("describe table", err)
	}
	return nil
}

// classifyError maps AWS API errors onto the application error taxonomy
func classifyError(operation string, err error) error {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return pkgerrors.NewDatabaseError(operation, err)
	}

	switch ae.ErrorCode() {
	case "ProvisionedThroughputExceededException", "RequestLimitExceeded", "ThrottlingException":
		return pkgerrors.NewUpstreamError(fmt.Sprintf("database operation '%s' throttled", operation), 503).WithCause(err)
	case "ResourceNotFoundException":
		return pkgerrors.NewDatabaseError(operation, fmt.Errorf("table not found: %w", err))
	default:
		return pkgerrors.NewDatabaseError(operation, err)
	}
}
