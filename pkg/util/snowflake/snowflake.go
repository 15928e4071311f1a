// Package snowflake 为落库的聊天消息分配 uuid
package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init 按 snowflakeConfig.machineId 创建节点，多实例部署时各节点须取不同值
// 只有第一次调用生效
func Init(machineID int64) {
	nodeOnce.Do(func() {
		if machineID < 0 || machineID > 1023 {
			zap.L().Warn("Invalid MachineID in config, using default value 1", zap.Int64("machineID", machineID))
			machineID = 1
		}
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			zap.L().Fatal("Failed to initialize snowflake node", zap.Error(err))
		}
		zap.L().Info("Snowflake node initialized", zap.Int64("machineID", machineID))
	})
}

// GenerateID 消息 uuid，同一节点内单调递增
func GenerateID() int64 {
	Init(1)
	return node.Generate().Int64()
}
