// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-tool-keeper/internal/adapter"
	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/events"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/internal/validators"
	"github.com/MKhiriev/go-tool-keeper/internal/workers"
)

type ClientServices struct {
	Bus          *events.Bus
	Connectivity *ConnectivityJob
	SyncEngine   SyncEngine
	SyncJob      *SyncJob
	CacheSweep   *CacheSweepJob
	DataService  DataService
	AuthService  ClientAuthService
	Queue        QueueInspector
	Notifier     *Notifier

	// Workers runs the connectivity, sync and cache sweep jobs.
	Workers *workers.Workers
}

func NewClientServices(localStore *store.ClientStorages, serverAdapter adapter.ServerAdapter, cfg config.ClientWorkers, logger *logger.Logger) *ClientServices {
	validator := validators.NewDomainValidator()
	bus := events.NewBus(events.DefaultHistorySize, logger.WithComponent("events"))

	connectivity := NewConnectivityJob(serverAdapter, bus, cfg.ConnectivityInterval, logger.WithComponent("connectivity"))
	engine := NewSyncEngine(localStore, serverAdapter, connectivity, bus, validator, cfg, logger.WithComponent("sync"))
	syncJob := NewSyncJob(engine, localStore.Preferences, bus, cfg.SyncInterval, logger.WithComponent("sync-job"))
	sweep := NewCacheSweepJob(localStore.Cache, bus, cfg.CacheSweepInterval, logger.WithComponent("cache"))

	return &ClientServices{
		Bus:          bus,
		Connectivity: connectivity,
		SyncEngine:   engine,
		SyncJob:      syncJob,
		CacheSweep:   sweep,
		DataService:  NewDataService(localStore, serverAdapter, connectivity, bus, validator, cfg.CacheTTL, logger.WithComponent("data")),
		AuthService:  NewClientAuthService(localStore.Preferences, serverAdapter, validator, logger.WithComponent("auth")),
		Queue:        NewQueueInspector(localStore.Queue, localStore.DeadLetters, logger),
		Notifier:     NewNotifier(bus, DefaultToastBuffer),
		Workers:      workers.NewWorkers(logger, connectivity, syncJob, sweep),
	}
}
