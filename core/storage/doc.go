// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface and builds the
// snapshot Archiver on top of it. Works with AWS S3 and self-hosted MinIO.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Archiver
//
// Every accepted webhook payload can be archived verbatim under
// <prefix>/<yyyy>/<mm>/<dd>/. Archived snapshots can be listed and replayed
// through the sync command.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	archiver := storage.NewArchiver(client, cfg.Storage.Bucket, cfg.Storage.ArchivePrefix)
//	key, err := archiver.Save(ctx, body, time.Now())
package storage
