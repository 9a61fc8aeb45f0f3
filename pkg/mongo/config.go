package mongo

import "time"

// Config holds the MongoDB connection settings, populated from the
// environment. The pool defaults suit a credential store whose workload is
// short point-reads and single-document conditional writes.
type Config struct {
	// ConnectionURL is the mongodb:// connection string.
	ConnectionURL string `env:"MONGODB_URL,required"`
	// ConnectTimeout bounds the initial handshake.
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	// MaxPoolSize caps concurrent connections per client.
	MaxPoolSize uint64 `env:"MONGODB_MAX_POOL_SIZE" envDefault:"50"`
	// MinPoolSize keeps warm connections for steady verification traffic.
	MinPoolSize uint64 `env:"MONGODB_MIN_POOL_SIZE" envDefault:"2"`
	// MaxConnIdleTime recycles connections idle longer than this.
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	// RetryWrites retries transient write failures once server-side. The
	// credential store's updates are conditional on a version field, so a
	// retried write cannot double-apply.
	RetryWrites bool `env:"MONGODB_RETRY_WRITES" envDefault:"true"`
	// RetryReads retries transient read failures.
	RetryReads bool `env:"MONGODB_RETRY_READS" envDefault:"true"`
	// RetryAttempts is how many times New redials before giving up.
	RetryAttempts int `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	// RetryInterval is the pause between redials.
	RetryInterval time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`
}
