// Package redis connects to Redis and stores the simulated role there.
//
// It wraps the go-redis client and adds:
//
//   - Connect, which retries the initial ping using Config.
//   - Storage, a string key/value wrapper that satisfies rolestore.Storage so
//     several processes can share one simulated role.
//   - Healthcheck for readiness checks.
//
// Config fields are populated from environment variables via
// github.com/caarlos0/env and checked with validate tags.
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := rolestore.New(ctx, catalog,
//	    rolestore.WithStorage(redis.NewStorageWithConfig(client, cfg)),
//	)
//
// # Errors
//
// Sentinel errors (ErrNotReady, ErrStorageFailed, ...) are combined with
// the underlying go-redis error using errors.Join, so errors.Is works on both.
package redis
