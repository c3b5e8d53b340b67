package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vallegroup/valle360/internal/clock"
	"github.com/vallegroup/valle360/internal/collection/rules"
	"github.com/vallegroup/valle360/internal/dispatch/domain"
)

type stubProvider struct {
	channel rules.Channel
	err     error
	calls   int
}

func (p *stubProvider) Channel() rules.Channel { return p.channel }

func (p *stubProvider) Send(ctx context.Context, msg domain.Message) error {
	p.calls++
	return p.err
}

func setupDispatcher(t *testing.T, providers ...domain.Provider) (domain.Dispatcher, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.MessageLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	d := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Clock:     clock.NewFakeClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
		GenID:     node,
		Providers: providers,
	})
	return d, db
}

func testMessage(node *snowflake.Node) domain.Message {
	return domain.Message{
		InvoiceID: node.Generate(),
		Recipient: "cliente@example.com.br",
		Phone:     "+5511999990000",
		Subject:   "Cobrança - Fatura Valle Group",
		Body:      "Olá",
	}
}

func TestSendAllFansOutToMessagingChannels(t *testing.T) {
	email := &stubProvider{channel: rules.ChannelEmail}
	whats := &stubProvider{channel: rules.ChannelWhatsApp}
	phone := &stubProvider{channel: rules.ChannelPhone}
	d, db := setupDispatcher(t, email, whats, phone)

	node, _ := snowflake.NewNode(2)
	res, err := d.Send(context.Background(), rules.ChannelAll, testMessage(node))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 2, res.Delivered)
	assert.True(t, res.AnySucceeded())
	assert.Equal(t, 1, email.calls)
	assert.Equal(t, 1, whats.calls)
	assert.Equal(t, 0, phone.calls)

	var logs []domain.MessageLog
	require.NoError(t, db.Find(&logs).Error)
	assert.Len(t, logs, 2)
}

func TestSendPartialFailureStillCountsAsSent(t *testing.T) {
	email := &stubProvider{channel: rules.ChannelEmail}
	whats := &stubProvider{channel: rules.ChannelWhatsApp, err: errors.New("gateway timeout")}
	d, db := setupDispatcher(t, email, whats)

	node, _ := snowflake.NewNode(2)
	res, err := d.Send(context.Background(), rules.ChannelAll, testMessage(node))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 1, res.Delivered)
	assert.True(t, res.AnySucceeded())

	var failed domain.MessageLog
	require.NoError(t, db.First(&failed, "channel = ?", "whatsapp").Error)
	assert.False(t, failed.Succeeded)
	assert.Equal(t, "gateway timeout", failed.Error)
	assert.Equal(t, "+5511999990000", failed.Recipient)
}

func TestSendAllSkipsWhatsAppWithoutPhone(t *testing.T) {
	email := &stubProvider{channel: rules.ChannelEmail}
	whats := &stubProvider{channel: rules.ChannelWhatsApp}
	d, _ := setupDispatcher(t, email, whats)

	node, _ := snowflake.NewNode(2)
	msg := testMessage(node)
	msg.Phone = ""

	res, err := d.Send(context.Background(), rules.ChannelAll, msg)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Attempted)
	assert.Equal(t, 0, whats.calls)
}

func TestSendUnknownChannel(t *testing.T) {
	email := &stubProvider{channel: rules.ChannelEmail}
	d, _ := setupDispatcher(t, email)

	node, _ := snowflake.NewNode(2)
	_, err := d.Send(context.Background(), rules.Channel("pombo-correio"), testMessage(node))
	assert.ErrorIs(t, err, domain.ErrUnknownChannel)
}

func TestSendNoRecipient(t *testing.T) {
	email := &stubProvider{channel: rules.ChannelEmail}
	d, _ := setupDispatcher(t, email)

	node, _ := snowflake.NewNode(2)
	msg := testMessage(node)
	msg.Recipient = ""
	msg.Phone = ""

	_, err := d.Send(context.Background(), rules.ChannelEmail, msg)
	assert.ErrorIs(t, err, domain.ErrNoRecipient)
}
