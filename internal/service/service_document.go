// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/models"
)

// documentService stores one document per user and lets readers long-poll
// for a revision newer than the one they have.
//
// Every user with waiting readers has a channel in watchers. A write closes
// the channel, waking all of them, and removes it; the next reader creates a
// fresh one.
type documentService struct {
	documentRepository store.DocumentRepository
	maxWait            time.Duration

	mu       sync.Mutex
	watchers map[int64]chan struct{}

	logger *logger.Logger
}

// NewDocumentService builds a DocumentService. Long polls are capped at
// maxWait; a non-positive maxWait disables waiting.
func NewDocumentService(documentRepository store.DocumentRepository, maxWait time.Duration, logger *logger.Logger) DocumentService {
	return &documentService{
		documentRepository: documentRepository,
		maxWait:            maxWait,
		watchers:           make(map[int64]chan struct{}),
		logger:             logger,
	}
}

func (d *documentService) GetDocument(ctx context.Context, query models.DocumentQuery) (models.RemoteDocument, error) {
	if query.Since < 0 {
		return d.read(ctx, query.UserID)
	}

	wait := time.Duration(query.WaitSeconds) * time.Second
	if wait > d.maxWait {
		wait = max(d.maxWait, 0)
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		// watch before reading so that a write between the read and the
		// wait is not missed
		changed := d.watch(query.UserID)

		doc, err := d.read(ctx, query.UserID)
		if err != nil {
			return models.RemoteDocument{}, err
		}
		if doc.Revision > query.Since {
			return doc, nil
		}

		select {
		case <-changed:
		case <-timer.C:
			return models.RemoteDocument{}, ErrNoChanges
		case <-ctx.Done():
			return models.RemoteDocument{}, ctx.Err()
		}
	}
}

func (d *documentService) PutDocument(ctx context.Context, doc models.RemoteDocument) (models.RemoteDocument, error) {
	saved, err := d.documentRepository.SaveDocument(ctx, doc)
	if err != nil {
		return models.RemoteDocument{}, fmt.Errorf("error saving document: %w", err)
	}

	d.notify(doc.UserID)

	logger.FromContext(ctx).Debug().
		Int64("user_id", doc.UserID).
		Int64("revision", saved.Revision).
		Str("writer_id", doc.WriterID).
		Msg("document replaced")

	return saved, nil
}

func (d *documentService) read(ctx context.Context, userID int64) (models.RemoteDocument, error) {
	doc, err := d.documentRepository.GetDocument(ctx, userID)
	if err != nil {
		return models.RemoteDocument{}, fmt.Errorf("error reading document: %w", err)
	}
	return doc, nil
}

func (d *documentService) watch(userID int64) <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch, ok := d.watchers[userID]
	if !ok {
		ch = make(chan struct{})
		d.watchers[userID] = ch
	}
	return ch
}

func (d *documentService) notify(userID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ch, ok := d.watchers[userID]; ok {
		close(ch)
		delete(d.watchers, userID)
	}
}

// IsNoChanges reports whether err means a long poll timed out.
func IsNoChanges(err error) bool {
	return errors.Is(err, ErrNoChanges)
}
