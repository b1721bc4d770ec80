package services

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/praxisflow/hr-engine/pkg/models"
)

// AlertNotifier posts critical alerts to the operator's ops channel.
// Notification is best-effort and config-gated; the overview response never
// waits on or fails because of Slack. Messages carry cohort-level facts
// only - the same person-free content as the alert itself.
type AlertNotifier struct {
	client  *slack.Client
	channel string
	logger  *zap.Logger
}

// NewAlertNotifier creates a notifier. Returns nil when token or channel
// is unset, which callers treat as "notifications disabled".
func NewAlertNotifier(token, channel string, logger *zap.Logger) *AlertNotifier {
	if token == "" || channel == "" {
		return nil
	}
	return &AlertNotifier{
		client:  slack.New(token),
		channel: channel,
		logger:  logger.Named("alert-notifier"),
	}
}

// NotifyCritical posts the critical alerts of one overview run. No-op for
// an empty slice or a nil notifier.
func (n *AlertNotifier) NotifyCritical(alerts []models.Alert) {
	if n == nil || len(alerts) == 0 {
		return
	}

	var b strings.Builder
	b.WriteString(":rotating_light: Critical HR alerts\n")
	for _, a := range alerts {
		fmt.Fprintf(&b, "• *%s* (%s/%s): %s\n", a.Title, a.AggregationLevel, a.GroupKey, a.Explanation)
	}

	_, _, err := n.client.PostMessage(n.channel, slack.MsgOptionText(b.String(), false))
	if err != nil {
		n.logger.Warn("Failed to post alert notification", zap.Error(err))
	}
}

// FilterCritical returns only the critical alerts across all snapshots.
func FilterCritical(alertsBySnapshot []models.SnapshotAlerts) []models.Alert {
	var critical []models.Alert
	for _, sa := range alertsBySnapshot {
		for _, a := range sa.Alerts {
			if a.Severity == models.AlertSeverityCritical {
				critical = append(critical, a)
			}
		}
	}
	return critical
}
