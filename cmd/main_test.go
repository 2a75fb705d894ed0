package main

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wattgod/training-plans-component/internal/config"
	"github.com/wattgod/training-plans-component/internal/notify"
)

func TestRun_StartsAndShutsDown(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("ADDR", "127.0.0.1:0")
	t.Setenv("SENDGRID_API_KEY", "SG.test")
	t.Setenv("NOTIFICATION_EMAIL", "coach@example.com")
	t.Setenv("SENDGRID_BASE_URL", "http://localhost:9999") // dummy endpoint

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := Run(ctx)
	assert.NoError(t, err)
}

func TestBuildNotifiers(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		channels []string
	}{
		{
			name:     "nothing configured",
			cfg:      config.Config{EmailProvider: config.ProviderSendGrid},
			channels: nil,
		},
		{
			name: "sendgrid and automation",
			cfg: config.Config{
				NotificationEmail: "coach@example.com",
				EmailProvider:     config.ProviderSendGrid,
				SendGridAPIKey:    "SG.test",
				GitHubToken:       "ghp_test",
				GitHubRepo:        "wattgod/plans",
			},
			channels: []string{notify.ChannelEmail, notify.ChannelAutomation},
		},
		{
			name: "ses without keys",
			cfg: config.Config{
				NotificationEmail: "coach@example.com",
				EmailProvider:     config.ProviderSES,
				SendGridAPIKey:    "SG.test",
			},
			channels: nil,
		},
		{
			name: "ses with static keys",
			cfg: config.Config{
				NotificationEmail:  "coach@example.com",
				EmailProvider:      config.ProviderSES,
				AWSRegion:          "us-west-2",
				AWSAccessKeyID:     "AKIATEST",
				AWSSecretAccessKey: "secret",
			},
			channels: []string{notify.ChannelEmail},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			notifiers, err := buildNotifiers(context.Background(), &tc.cfg, zap.NewNop())
			require.NoError(t, err)

			var channels []string
			for _, n := range notifiers {
				channels = append(channels, n.Channel())
			}
			assert.Equal(t, tc.channels, channels)
		})
	}
}

func TestMain_GracefulExit(t *testing.T) {
	// Keep config.Load() away from real credentials and the default port.
	t.Setenv("ENV", "test")
	t.Setenv("ADDR", "127.0.0.1:0")
	t.Setenv("NOTIFICATION_EMAIL", "")

	// Run main in a goroutine (this will block waiting for signal)
	go func() {
		main()
	}()

	// Give time for main to start
	time.Sleep(500 * time.Millisecond)

	// Send SIGINT to simulate Ctrl+C
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatalf("unable to find process: %v", err)
	}
	_ = p.Signal(syscall.SIGINT)

	// Wait for graceful shutdown
	time.Sleep(1 * time.Second)
}
