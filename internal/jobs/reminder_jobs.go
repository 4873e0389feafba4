package jobs

import (
	"context"
	"time"

	"bookshare-backend/internal/logger"
)

const reminderJobTimeout = 5 * time.Minute

// SendPendingRequestReminders emails every donor who has requests left pending
// longer than the configured age. One failed email does not stop the rest.
func (jr *JobRunner) SendPendingRequestReminders() {
	jr.runWithRecovery("SendPendingRequestReminders", func() {
		ctx, cancel := context.WithTimeout(context.Background(), reminderJobTimeout)
		defer cancel()

		cutoff := jr.now().Add(-jr.config.PendingReminderAge())
		digests, err := jr.requests.PendingDigests(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to load pending request digests", "error", err)
			return
		}

		sent := 0
		for _, digest := range digests {
			if err := jr.email.SendPendingReminder(ctx, digest); err != nil {
				logger.Error("Failed to send pending request reminder",
					"donor_id", digest.DonorID,
					"pending", digest.PendingCount,
					"error", err)
				continue
			}
			sent++
			logger.Debug("Sent pending request reminder", "donor_id", digest.DonorID, "pending", digest.PendingCount)
		}

		logger.Info("Pending request reminders sent", "sent", sent, "donors", len(digests), "cutoff", cutoff)
	})
}
