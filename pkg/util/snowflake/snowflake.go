package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
	confID   int64 = 1
)

// Init initialises the snowflake node. Call once at startup.
// Snowflake ids are strictly increasing per node, which is what makes
// message ids a stable chronological tie-break.
func Init(machineID int64) {
	confID = machineID
	nodeOnce.Do(func() {
		id := confID
		if id < 0 || id > 1023 {
			id = 1
			zap.L().Warn("invalid snowflake machineID in config, using default 1")
		}
		var err error
		node, err = snowflake.NewNode(id)
		if err != nil {
			zap.L().Fatal("failed to initialize snowflake node", zap.Error(err))
		}
	})
}

// GenerateID generates a snowflake id (int64).
func GenerateID() int64 {
	if node == nil {
		Init(confID)
	}
	return node.Generate().Int64()
}
