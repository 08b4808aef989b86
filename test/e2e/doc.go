/*
Package main runs the end-to-end suite against a live xo-server.

# Package Structure

	test/e2e/
	├── main.go   Entry point: flags, configuration, logger, Ginkgo runner
	├── tests.go  Ginkgo specs (user, job, backupNg, vm)
	└── doc.go    This file

# Connections

Every Ginkgo container dials one xo.Connection as the admin user. The connection
keeps its object cache in sync with the server pushes, which lets specs wait
for an object to reach a state instead of polling:

	┌────────────┐  call   ┌───────────┐
	│   specs    │────────▶│ xo-server │
	└─────┬──────┘         └─────┬─────┘
	      │ WaitObjectState      │ "all" notifications
	      ▼                      ▼
	┌────────────────────────────────┐
	│ xo.Connection (store, waiters) │
	└────────────────────────────────┘

Resources created with the CreateTemp* helpers are recorded on the connection and
deleted newest first by DeleteTempResources in AfterEach. A failed deletion is
logged and does not stop the others.

# Running

	go run ./test/e2e -server-url localhost:9000 -email admin@admin.net -password admin
	go run ./test/e2e -vm-template <template id>   also runs the VM specs
*/
package main
