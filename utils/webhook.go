package utils

import (
	"log"
	"time"

	"elearn/config"

	"github.com/go-resty/resty/v2"
)

// NotifyPurchase posts a purchase event to the configured webhook endpoint.
// Fire-and-forget: the purchase has already committed when this runs.
func NotifyPurchase(userID, courseID uint, courseTitle string, amount float64, reference string) {
	if config.AppConfig == nil || config.AppConfig.PurchaseWebhookURL == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":       "course.purchased",
			"userId":      userID,
			"courseId":    courseID,
			"courseTitle": courseTitle,
			"amount":      amount,
			"reference":   reference,
			"occurredAt":  time.Now().UTC().Format(time.RFC3339),
		}).
		Post(config.AppConfig.PurchaseWebhookURL)
	if err != nil {
		log.Printf("[WEBHOOK] purchase notification failed: %v", err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("[WEBHOOK] purchase notification returned %d", resp.StatusCode())
	}
}
