//go:build integration
// +build integration

package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"relay_chat_server/internal/config"
	"relay_chat_server/internal/dao/mysql/repository"
	"relay_chat_server/internal/model"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要本机数据库可用（按 configs/config.toml）
// go test -tags integration ./internal/dao/mysql/

func loadDatabaseConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	conf := config.Default()
	require.NoError(t, config.LoadConfig(conf, "../../../configs/config_local.toml", "../../../configs/config.toml"))
	config.ApplyEnv(conf)
	return conf.DatabaseConfig
}

func ensureMySQLDatabaseExists(t *testing.T, cfg *config.DatabaseConfig) {
	t.Helper()
	if cfg.Driver == "postgres" {
		return
	}
	dsnNoDB := fmt.Sprintf("%s:%s@tcp(%s:%d)/?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port)
	db, err := sql.Open("mysql", dsnNoDB)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())
	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + cfg.DatabaseName + " DEFAULT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci")
	require.NoError(t, err)
}

func TestIntegrationMessagePaging(t *testing.T) {
	cfg := loadDatabaseConfig(t)
	ensureMySQLDatabaseExists(t, &cfg)
	db, err := Open(&cfg, "release")
	require.NoError(t, err)
	repos := repository.NewRepositories(db)
	ctx := context.Background()

	conversationId := fmt.Sprintf("it_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		db.Unscoped().Where("conversation_id = ?", conversationId).Delete(&model.Message{})
	})

	for i := int64(1); i <= 20; i++ {
		require.NoError(t, repos.Message.Create(ctx, &model.Message{
			Uuid:           time.Now().UnixNano() + i,
			ConversationId: conversationId,
			SendId:         "u1",
			ReceiveId:      "u2",
			Content:        fmt.Sprintf("m%d", i),
			SendTime:       i * 100,
		}))
	}

	latest, err := repos.Message.FindLatest(ctx, conversationId, 15)
	require.NoError(t, err)
	require.Len(t, latest, 15)
	assert.Equal(t, int64(2000), latest[0].SendTime)
	assert.Equal(t, int64(600), latest[14].SendTime)

	older, err := repos.Message.FindBefore(ctx, conversationId, latest[14].SendTime, 15)
	require.NoError(t, err)
	require.Len(t, older, 5)
	assert.Equal(t, int64(500), older[0].SendTime)
	assert.Equal(t, int64(100), older[4].SendTime)

	none, err := repos.Message.FindLatest(ctx, conversationId+"_missing", 15)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIntegrationFindFriends(t *testing.T) {
	cfg := loadDatabaseConfig(t)
	ensureMySQLDatabaseExists(t, &cfg)
	db, err := Open(&cfg, "release")
	require.NoError(t, err)
	repos := repository.NewRepositories(db)

	owner := fmt.Sprintf("it_u_%d", time.Now().UnixNano())
	rows := []model.UserContact{
		{UserId: owner, ContactId: "f1", ContactType: model.ContactTypeUser, Status: model.ContactStatusNormal},
		{UserId: owner, ContactId: "g1", ContactType: model.ContactTypeGroup, Status: model.ContactStatusNormal},
		{UserId: owner, ContactId: "f2", ContactType: model.ContactTypeUser, Status: 2},
	}
	require.NoError(t, db.Create(&rows).Error)
	t.Cleanup(func() {
		db.Unscoped().Where("user_id = ?", owner).Delete(&model.UserContact{})
	})

	friends, err := repos.Contact.FindFriends(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "f1", friends[0].ContactId)
}
