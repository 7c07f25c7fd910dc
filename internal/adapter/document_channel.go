// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/models"
)

const (
	defaultPollWait      = 25 * time.Second
	reconnectBackoff     = 500 * time.Millisecond
	maxReconnectBackoff  = 30 * time.Second
	ownRevisionsCapacity = 64
)

// DocumentChannel delivers the remote document and its changes by
// long-polling the server, and writes local snapshots to it.
//
// A delivered revision is local-origin when it equals a revision returned by
// this channel's own Write.
type DocumentChannel struct {
	adapter  ServerAdapter
	pollWait time.Duration
	logger   *logger.Logger

	mu       sync.Mutex
	own      map[int64]struct{}
	ownOrder []int64
	nextSub  uint64
	cancels  map[uint64]context.CancelFunc

	wg sync.WaitGroup
}

func NewDocumentChannel(adapter ServerAdapter, cfg config.ClientAdapter, logger *logger.Logger) *DocumentChannel {
	pollWait := cfg.PollWait
	if pollWait < time.Second {
		pollWait = defaultPollWait
	}

	return &DocumentChannel{
		adapter:  adapter,
		pollWait: pollWait,
		logger:   logger.WithComponent("document_channel"),
		own:      make(map[int64]struct{}),
		cancels:  make(map[uint64]context.CancelFunc),
	}
}

// Write replaces the remote document with snapshot.
func (c *DocumentChannel) Write(ctx context.Context, snapshot models.Snapshot) error {
	resp, err := c.adapter.PutDocument(ctx, snapshot)
	if err != nil {
		return err
	}

	c.rememberOwn(resp.Revision)
	return nil
}

// Subscribe starts delivering the current remote document, then every newer
// revision, to handler from a single goroutine. Transport failures are
// retried with capped exponential backoff; a 401 or 400 ends the
// subscription and is reported to onEnd.
//
// The returned function stops delivery without waiting for an in-flight
// handler call.
func (c *DocumentChannel) Subscribe(ctx context.Context, handler func(models.DocumentChange), onEnd func(error)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.cancels[id] = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		defer c.forget(id)
		if err := c.poll(subCtx, handler); err != nil && onEnd != nil {
			onEnd(err)
		}
	}()

	return cancel, nil
}

// Close stops every subscription and waits for their goroutines to exit.
func (c *DocumentChannel) Close() {
	c.mu.Lock()
	for _, cancel := range c.cancels {
		cancel()
	}
	c.mu.Unlock()

	c.wg.Wait()
}

// poll returns nil once ctx is done and the read error otherwise.
func (c *DocumentChannel) poll(ctx context.Context, handler func(models.DocumentChange)) error {
	since := int64(-1)
	log := c.logger.With().Str("func", "*DocumentChannel.poll").Logger()

	for ctx.Err() == nil {
		doc, err := c.read(ctx, since)
		if errors.Is(err, ErrNoChanges) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Err(err).Int64("since", since).Msg("remote document subscription ended")
			return err
		}

		since = doc.Revision
		handler(models.DocumentChange{
			Document:      doc.Document,
			IsLocalOrigin: c.isOwn(doc.Revision),
			Revision:      doc.Revision,
		})
	}
	return nil
}

func (c *DocumentChannel) read(ctx context.Context, since int64) (models.RemoteDocument, error) {
	query := models.DocumentQuery{Since: since}
	if since >= 0 {
		query.WaitSeconds = int(c.pollWait / time.Second)
	}

	backoff := retry.WithCappedDuration(maxReconnectBackoff, retry.NewExponential(reconnectBackoff))

	var doc models.RemoteDocument
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		doc, err = c.adapter.GetDocument(ctx, query)
		switch {
		case err == nil, errors.Is(err, ErrNoChanges), errors.Is(err, ErrUnauthorized), errors.Is(err, ErrBadRequest):
			return err
		default:
			c.logger.Warn().Err(err).Str("func", "*DocumentChannel.read").Msg("remote document read failed, reconnecting")
			return retry.RetryableError(err)
		}
	})

	return doc, err
}

func (c *DocumentChannel) rememberOwn(revision int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.own[revision]; ok {
		return
	}
	c.own[revision] = struct{}{}
	c.ownOrder = append(c.ownOrder, revision)

	if len(c.ownOrder) > ownRevisionsCapacity {
		delete(c.own, c.ownOrder[0])
		c.ownOrder = c.ownOrder[1:]
	}
}

func (c *DocumentChannel) isOwn(revision int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.own[revision]
	return ok
}

func (c *DocumentChannel) forget(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cancels, id)
}
