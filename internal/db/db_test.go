package db

import (
	"bytes"
	"errors"
	"os"
	"testing"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autobid/internal/model"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	assert.Error(t, err)
}

func TestNewTestDB_MigratesSchema(t *testing.T) {
	gdb := NewTestDB(t)

	for _, m := range models() {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
	assert.False(t, SupportsRowLocks(gdb))
}

func TestReset_DropsTables(t *testing.T) {
	gdb := NewTestDB(t)

	require.NoError(t, Reset(gdb))
	assert.False(t, gdb.Migrator().HasTable(&model.Auction{}))

	require.NoError(t, Migrate(gdb))
	assert.True(t, gdb.Migrator().HasTable(&model.Auction{}))
}

func TestOpen_MissingRowIsNotLogged(t *testing.T) {
	gdb := NewTestDB(t)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stdout) })

	err := gdb.Where("email = ?", "nobody@example.com").First(&model.User{}).Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Empty(t, buf.String())

	err = gdb.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"component":"gorm"`)
}
