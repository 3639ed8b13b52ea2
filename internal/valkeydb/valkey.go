package valkeydb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	PendingKey    = "resume:pending"
	ProcessingKey = "resume:processing"
)

// ErrQueueEmpty is returned by Consume when nothing arrived before the poll timeout.
var ErrQueueEmpty = errors.New("no job available")

// ValkeyClient is a reliable queue of job ids. Consumed ids sit on the processing list
// until they are acked.
type ValkeyClient struct {
	Client        valkey.Client
	PendingKey    string
	ProcessingKey string
	pollTimeout   time.Duration
}

func New(ctx context.Context, address, password string, pollTimeout time.Duration) (*ValkeyClient, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		Password:    password,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create Valkey client: %w", err)
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping Valkey: %w", err)
	}

	return &ValkeyClient{
		Client:        client,
		PendingKey:    PendingKey,
		ProcessingKey: ProcessingKey,
		pollTimeout:   pollTimeout,
	}, nil
}

func (v *ValkeyClient) Close() {
	v.Client.Close()
}

func (v *ValkeyClient) Produce(ctx context.Context, jobID uuid.UUID) error {
	cmd := v.Client.B().Lpush().
		Key(v.PendingKey).
		Element(jobID.String()).
		Build()

	if err := v.Client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("unable to add job (%s) to the queue: %w", jobID, err)
	}

	return nil
}

// Consume moves the oldest pending id onto the processing list and returns it.
func (v *ValkeyClient) Consume(ctx context.Context) (uuid.UUID, error) {
	cmd := v.Client.B().Blmove().
		Source(v.PendingKey).
		Destination(v.ProcessingKey).
		Right().
		Left().
		Timeout(v.pollTimeout.Seconds()).
		Build()

	raw, err := v.Client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return uuid.Nil, ErrQueueEmpty
		}
		return uuid.Nil, fmt.Errorf("failed to move job to processing list: %w", err)
	}

	jobID, err := uuid.Parse(raw)
	if err != nil {
		// unparseable entries would block the processing list forever
		v.remove(ctx, raw)
		return uuid.Nil, fmt.Errorf("invalid job id %q on queue: %w", raw, err)
	}

	return jobID, nil
}

// Ack drops a finished job from the processing list.
func (v *ValkeyClient) Ack(ctx context.Context, jobID uuid.UUID) error {
	if err := v.remove(ctx, jobID.String()); err != nil {
		return fmt.Errorf("unable to ack job (%s): %w", jobID, err)
	}
	return nil
}

func (v *ValkeyClient) remove(ctx context.Context, element string) error {
	cmd := v.Client.B().Lrem().
		Key(v.ProcessingKey).
		Count(1).
		Element(element).
		Build()

	return v.Client.Do(ctx, cmd).Error()
}
