package storehouse

import "go.uber.org/zap"

// Config holds global configuration for the storage layer
var Config config = config{
	logger: zap.NewNop(),
}

type config struct {
	logger         *zap.Logger
	tableCapacity  int
	sparseCapacity int
}

// SetLogger configures the logger used for storage lifecycle events.
// A nil logger disables logging.
func (c *config) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.logger = l
}

func (c *config) Logger() *zap.Logger {
	return c.logger
}

// SetInitialTableCapacity sets the row capacity reserved by new tables.
func (c *config) SetInitialTableCapacity(n int) {
	c.tableCapacity = max(n, 0)
}

// SetInitialSparseCapacity sets the dense capacity reserved by new sparse sets.
func (c *config) SetInitialSparseCapacity(n int) {
	c.sparseCapacity = max(n, 0)
}
