package service

import (
	"github.com/MKhiriev/go-ads-sync/internal/adapter"
	"github.com/MKhiriev/go-ads-sync/internal/config"
	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/internal/store"
)

type Services struct {
	Detector   ChangeDetector
	Loader     RemoteLoader
	Classifier Classifier
	Pusher     Pusher
	Stats      StatsService
	Bids       BidService
	Editor     ReplicaEditor
	Engine     SyncEngine
	SyncJob    SyncJob
}

func NewServices(cfg *config.StructuredConfig, storages *store.Storages, api adapter.PlatformAPI, log *logger.Logger) *Services {
	detector := NewChangeDetector(api, storages, log)
	loader := NewRemoteLoader(api, storages, log)
	classifier := NewClassifier(storages, log)
	pusher := NewPusher(api, storages, log)
	stats := NewStatsService(api, storages, log)
	bids := NewBidService(api, storages, log)
	engine := NewSyncEngine(cfg, storages, detector, loader, classifier, pusher, stats, bids, log)

	return &Services{
		Detector:   detector,
		Loader:     loader,
		Classifier: classifier,
		Pusher:     pusher,
		Stats:      stats,
		Bids:       bids,
		Editor:     NewReplicaEditor(storages, log),
		Engine:     engine,
		SyncJob:    NewSyncJob(engine, log),
	}
}
