package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/balneario-store/internal/config"
	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/logger"
	"github.com/balneario-store/internal/models"
	"github.com/balneario-store/internal/queue"
	"github.com/balneario-store/internal/repository"

	"github.com/hibiken/asynq"
)

// NotificationService 购买事件通知服务。
// 通知失败只记录日志，任何错误都不回传给下单主流程。
type NotificationService struct {
	purchaseRepo repository.PurchaseRepository
	queueClient  *queue.Client
	webhookCfg   config.WebhookConfig
	httpClient   *http.Client
}

// discordWebhookPayload Discord Webhook 请求体
type discordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title     string              `json:"title"`
	Color     int                 `json:"color"`
	Fields    []discordEmbedField `json:"fields,omitempty"`
	Timestamp string              `json:"timestamp"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Discord 嵌入卡片颜色
const (
	embedColorPending  = 0xF1C40F
	embedColorApproved = 0x2ECC71
	embedColorRejected = 0xE74C3C
)

// NewNotificationService 创建通知服务
func NewNotificationService(purchaseRepo repository.PurchaseRepository, queueClient *queue.Client, webhookCfg config.WebhookConfig) *NotificationService {
	timeout := 5 * time.Second
	if webhookCfg.TimeoutMS > 0 {
		timeout = time.Duration(webhookCfg.TimeoutMS) * time.Millisecond
	}
	return &NotificationService{
		purchaseRepo: purchaseRepo,
		queueClient:  queueClient,
		webhookCfg:   webhookCfg,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// NotifyPurchaseEvent 发布购买事件。队列可用时异步投递，
// 否则降级为后台协程直接发送。
func (s *NotificationService) NotifyPurchaseEvent(eventType string, purchaseID uint) {
	if s == nil || !s.webhookCfg.Enabled {
		return
	}

	if s.queueClient.Enabled() {
		payload := queue.NotificationDispatchPayload{
			EventType:  eventType,
			PurchaseID: purchaseID,
		}
		if err := s.queueClient.EnqueueNotificationDispatch(payload, asynq.MaxRetry(5)); err != nil {
			logger.Warnw("enqueue purchase notification failed",
				"event_type", eventType,
				"purchase_id", purchaseID,
				"error", err)
		}
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.Dispatch(ctx, eventType, purchaseID); err != nil {
			logger.Warnw("dispatch purchase notification failed",
				"event_type", eventType,
				"purchase_id", purchaseID,
				"error", err)
		}
	}()
}

// Dispatch 渲染并发送一条购买事件通知，供队列 worker 调用。
func (s *NotificationService) Dispatch(ctx context.Context, eventType string, purchaseID uint) error {
	if !s.webhookCfg.Enabled {
		return nil
	}

	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return ErrPurchaseNotFound
	}

	payload := buildPurchaseEmbed(eventType, purchase)
	url := s.resolveWebhookURL(eventType)
	if strings.TrimSpace(url) == "" {
		return nil
	}
	return s.post(ctx, url, payload)
}

func (s *NotificationService) resolveWebhookURL(eventType string) string {
	switch eventType {
	case constants.NotificationEventPurchaseCreated,
		constants.NotificationEventPurchaseApproved,
		constants.NotificationEventPurchaseRejected:
		if strings.TrimSpace(s.webhookCfg.PurchaseURL) != "" {
			return s.webhookCfg.PurchaseURL
		}
	}
	return s.webhookCfg.GeneralURL
}

func (s *NotificationService) post(ctx context.Context, url string, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}

// buildPurchaseEmbed 渲染购买事件的 Discord 嵌入卡片
func buildPurchaseEmbed(eventType string, purchase *models.Purchase) discordWebhookPayload {
	title := "新购买待处理"
	color := embedColorPending
	switch eventType {
	case constants.NotificationEventPurchaseApproved:
		title = "购买已批准"
		color = embedColorApproved
	case constants.NotificationEventPurchaseRejected:
		title = "购买已拒绝"
		color = embedColorRejected
	}

	fields := []discordEmbedField{
		{Name: "购买编号", Value: purchase.PurchaseNo, Inline: true},
		{Name: "商品", Value: purchase.ProductName, Inline: true},
		{Name: "金额", Value: purchase.AmountPaid.String(), Inline: true},
		{Name: "支付模式", Value: purchase.PaymentMode, Inline: true},
		{Name: "状态", Value: purchase.Status, Inline: true},
	}
	if purchase.UserEmail != "" {
		fields = append(fields, discordEmbedField{Name: "买家", Value: purchase.UserEmail, Inline: true})
	}
	if purchase.CouponCode != nil && *purchase.CouponCode != "" {
		fields = append(fields, discordEmbedField{Name: "优惠码", Value: *purchase.CouponCode, Inline: true})
	}

	return discordWebhookPayload{
		Embeds: []discordEmbed{{
			Title:     title,
			Color:     color,
			Fields:    fields,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}
}
