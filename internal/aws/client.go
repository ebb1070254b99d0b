package aws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

type Error string

const (
	ErrNoCredentials      = Error("no AWS credentials found")
	ErrExpiredCredentials = Error("AWS credentials have expired")
	ErrNoConnection       = Error("no connection to AWS")
	ErrInvalidProfile     = Error("invalid AWS profile")
	ErrInvalidRegion      = Error("invalid AWS region")
)

func (e Error) Error() string {
	return string(e)
}

// Connection is the AWS surface the AMI backend needs.
type Connection interface {
	Region() string
	SetRegion(region string) error
	EC2(region string) *ec2.Client
	Identify(ctx context.Context) (string, error)
}

type ClientConfig struct {
	Profile string
	Region  string
	Timeout time.Duration
}

type regionClients struct {
	ec2 *ec2.Client
	sts *sts.Client
}

// APIClient caches SDK clients per region for one profile.
type APIClient struct {
	config  ClientConfig
	clients map[string]*regionClients
	load    func(ctx context.Context, profile, region string) (aws.Config, error)
	mx      sync.RWMutex
}

// NewAPIClient validates cfg.Profile against settings and returns a client.
// Nothing is sent to AWS until a service client is first used.
func NewAPIClient(settings ProfileSettings, cfg *ClientConfig) (*APIClient, error) {
	if settings == nil {
		return nil, errors.New("settings cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Profile != "" {
		if _, err := settings.GetProfile(cfg.Profile); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidProfile, cfg.Profile)
		}
	}
	c := APIClient{
		config:  *cfg,
		clients: make(map[string]*regionClients),
		load:    loadConfig,
	}
	if c.config.Region == "" {
		c.config.Region = DefaultRegion
	}

	return &c, nil
}

// Region returns the active region.
func (c *APIClient) Region() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.config.Region
}

// SetRegion switches the active region. Clients are created lazily per region.
func (c *APIClient) SetRegion(region string) error {
	if !IsKnownRegion(region) {
		return fmt.Errorf("%w: %q", ErrInvalidRegion, region)
	}

	c.mx.Lock()
	defer c.mx.Unlock()
	c.config.Region = region

	return nil
}

// EC2 returns an EC2 client for region, or nil when the SDK config fails to load.
func (c *APIClient) EC2(region string) *ec2.Client {
	rc, err := c.regionClients(region)
	if err != nil {
		return nil
	}
	return rc.ec2
}

// Identify returns the account ID behind the active credentials.
func (c *APIClient) Identify(ctx context.Context) (string, error) {
	ctx, cancel := c.context(ctx)
	defer cancel()

	rc, err := c.regionClients(c.Region())
	if err != nil {
		return "", err
	}
	out, err := rc.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", WrapAWSError(err, "get caller identity")
	}

	return aws.ToString(out.Account), nil
}

func (c *APIClient) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.Timeout > 0 {
		return context.WithTimeout(ctx, c.config.Timeout)
	}
	return context.WithCancel(ctx)
}

func (c *APIClient) regionClients(region string) (*regionClients, error) {
	c.mx.RLock()
	rc, ok := c.clients[region]
	c.mx.RUnlock()
	if ok {
		return rc, nil
	}

	c.mx.Lock()
	defer c.mx.Unlock()
	if rc, ok := c.clients[region]; ok {
		return rc, nil
	}

	ctx, cancel := c.context(context.Background())
	defer cancel()
	cfg, err := c.load(ctx, c.config.Profile, region)
	if err != nil {
		return nil, WrapAWSError(err, "load AWS config")
	}
	rc = &regionClients{
		ec2: ec2.NewFromConfig(cfg),
		sts: sts.NewFromConfig(cfg),
	}
	c.clients[region] = rc

	return rc, nil
}

func loadConfig(ctx context.Context, profile, region string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

// ErrorCode returns the smithy API error code carried by err, if any.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// WrapAWSError wraps AWS SDK errors with additional context.
func WrapAWSError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation":
			return fmt.Errorf("access denied for %s: %w", operation, err)
		case "ExpiredToken", "ExpiredTokenException":
			return fmt.Errorf("%w: %s", ErrExpiredCredentials, operation)
		case "ThrottlingException", "RequestLimitExceeded":
			return fmt.Errorf("rate limited during %s: %w", operation, err)
		case "InvalidClientTokenId", "AuthFailure":
			return fmt.Errorf("%w: %s", ErrNoCredentials, operation)
		default:
			return fmt.Errorf("%s failed: %s (%s): %w", operation, apiErr.ErrorMessage(), apiErr.ErrorCode(), err)
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
