// Package redis provides Redis connection management with environment-based
// configuration, retry logic, and a health check helper.
//
// The lockout package uses a client produced here for its shared failure
// store, so every instance of the auth service counts failed verification
// attempts against the same budget.
//
// # Usage
//
//	import (
//		"context"
//
//		"github.com/sitetrack/authkit/pkg/lockout"
//		"github.com/sitetrack/authkit/pkg/redis"
//	)
//
//	func main() {
//		cfg := redis.Config{ConnectionURL: "redis://localhost:6379/0"}
//
//		client, err := redis.Connect(context.Background(), cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer client.Close()
//
//		store := lockout.NewRedisStore(client)
//		// wire the store into lockout.New(...)
//
//		health := redis.Healthcheck(client)
//		if err := health(context.Background()); err != nil {
//			log.Println("redis is unavailable:", err)
//		}
//	}
//
// # Configuration
//
// Configuration is environment-driven; see Config for the variables and their
// defaults. Use errors.Is() against the package sentinels to distinguish a
// malformed URL from a server that never became ready.
package redis
