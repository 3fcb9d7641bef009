package metrics

import (
	"context"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace                = "ReviewGenerator/API"
	httpStatusServerError    = 500
	cloudwatchTimeoutSeconds = 5
)

// putMetricDataAPI is the slice of the CloudWatch client we use
type putMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Client wraps CloudWatch client for custom metrics
type Client struct {
	client      putMetricDataAPI
	enabled     bool
	environment string
	async       bool
}

// NewClient creates a new CloudWatch metrics client. It is a no-op unless
// enabled and running in production.
func NewClient(ctx context.Context, environment string, enabled bool) *Client {
	if !enabled || environment != "production" {
		logger.Info("CloudWatch metrics disabled", logger.Fields{"environment": environment})
		return &Client{enabled: false, environment: environment}
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Warn("Failed to load AWS config for CloudWatch", logger.Fields{"error": err.Error()})
		return &Client{enabled: false, environment: environment}
	}

	logger.Info("CloudWatch metrics enabled", logger.Fields{"namespace": namespace})
	return &Client{
		client:      cloudwatch.NewFromConfig(cfg),
		enabled:     true,
		environment: environment,
		async:       true,
	}
}

// RecordAPIRequest implements Recorder
func (m *Client) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	m.run(func(ctx context.Context) {
		metricName := "APIRequests"
		if statusCode >= httpStatusServerError {
			metricName = "APIErrors"
		}
		dimensions := []types.Dimension{
			{Name: aws.String("Endpoint"), Value: aws.String(endpoint)},
			{Name: aws.String("Environment"), Value: aws.String(m.environment)},
		}
		m.putMetric(ctx, metricName, 1, types.StandardUnitCount, dimensions)
		m.putMetric(ctx, "APILatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
	})
}

// RecordGeneration implements Recorder
func (m *Client) RecordGeneration(_ context.Context, g Generation) {
	if !m.enabled {
		return
	}

	m.run(func(ctx context.Context) {
		dimensions := []types.Dimension{
			{Name: aws.String("Provider"), Value: aws.String(g.Provider)},
			{Name: aws.String("Outcome"), Value: aws.String(g.Outcome())},
			{Name: aws.String("Environment"), Value: aws.String(m.environment)},
		}
		m.putMetric(ctx, "Generations", 1, types.StandardUnitCount, dimensions)
		m.putMetric(ctx, "GenerationDuration", float64(g.Duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)

		if total, ok := g.Result.TokenUsage.TotalTokens(); ok {
			modelDims := []types.Dimension{
				{Name: aws.String("Model"), Value: aws.String(g.Model)},
				{Name: aws.String("Environment"), Value: aws.String(m.environment)},
			}
			m.putMetric(ctx, "CompletionTokens/Total", float64(total), types.StandardUnitCount, modelDims)
		}
	})
}

func (m *Client) run(fn func(ctx context.Context)) {
	if m.async {
		go fn(context.Background())
		return
	}
	fn(context.Background())
}

// putMetric sends a metric to CloudWatch
func (m *Client) putMetric(
	ctx context.Context,
	metricName string,
	value float64,
	unit types.StandardUnit,
	dimensions []types.Dimension,
) {
	if !m.enabled || m.client == nil {
		return
	}

	cwCtx, cancel := context.WithTimeout(ctx, cloudwatchTimeoutSeconds*time.Second)
	defer cancel()

	_, err := m.client.PutMetricData(cwCtx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dimensions,
			},
		},
	})
	if err != nil {
		logger.Warn("Failed to record CloudWatch metric", logger.Fields{"metric": metricName, "error": err.Error()})
	}
}
