package service

import (
	"context"
	"time"

	"github.com/huandu/go-clone"

	"github.com/MKhiriev/go-life-keeper/models"
)

// LocalStamp is the source of the local snapshot stamp.
type LocalStamp interface {
	Stamp() time.Time
	Touch(ctx context.Context) time.Time
}

type snapshotBuilder struct {
	stores StoreRegistry
	stamp  LocalStamp
}

// NewSnapshotBuilder builds snapshots from every store of stores, stamped by
// stamp.
func NewSnapshotBuilder(stores StoreRegistry, stamp LocalStamp) SnapshotBuilder {
	return &snapshotBuilder{stores: stores, stamp: stamp}
}

// Build never fails. Data is deep-copied so that later store mutations do not
// leak into a snapshot being uploaded.
func (b *snapshotBuilder) Build() models.Snapshot {
	stores := b.stores.Stores()

	modules := make(map[models.ModuleName]any, len(stores))
	for _, s := range stores {
		data := s.CurrentData()
		if data == nil {
			data = models.DefaultModuleData(s.Module())
		}
		modules[s.Module()] = clone.Clone(data)
	}

	return models.Snapshot{
		SchemaVersion: models.CurrentSchemaVersion,
		ExportedAt:    b.stamp.Stamp(),
		Modules:       modules,
	}
}

func (b *snapshotBuilder) BuildFresh(ctx context.Context) models.Snapshot {
	b.stamp.Touch(ctx)
	return b.Build()
}

func (b *snapshotBuilder) LocalStamp() time.Time {
	return b.stamp.Stamp()
}

// ShouldAdoptRemote decides a conflict between the local and the remote
// snapshot: the remote wins only when it is strictly newer. An empty remote
// never wins.
func ShouldAdoptRemote(local, remote models.Snapshot) bool {
	return remoteIsNewer(local.ExportedAt, remote)
}

func remoteIsNewer(localStamp time.Time, remote models.Snapshot) bool {
	if remote.IsEmpty() {
		return false
	}
	return remote.ExportedAt.After(localStamp)
}
