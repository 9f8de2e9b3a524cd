package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"resumecraft/internal/database"
	"resumecraft/internal/errcode"
	"resumecraft/internal/export"
	"resumecraft/internal/resume"
	"resumecraft/internal/storage"
	"resumecraft/internal/tasks"
)

// ExportTaskHandler 负责消费 PDF 导出任务：从数据库加载文档，
// 驱动导出管线，产物上传对象存储，并通过 Redis 通知前端。
type ExportTaskHandler struct {
	db          *gorm.DB
	storage     *storage.Client
	redisClient *redis.Client
	exporter    *export.Exporter
	logger      *slog.Logger
	baseURL     string
}

// NewExportTaskHandler 创建任务处理器。
func NewExportTaskHandler(
	db *gorm.DB,
	storage *storage.Client,
	redisClient *redis.Client,
	exporter *export.Exporter,
	logger *slog.Logger,
	baseURL string,
) *ExportTaskHandler {
	return &ExportTaskHandler{
		db:          db,
		storage:     storage,
		redisClient: redisClient,
		exporter:    exporter,
		logger:      logger,
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *ExportTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.PDFExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Int("resume_id", int(payload.ResumeID)),
	)
	log.Info("Starting resume PDF export task...")

	var row database.Resume
	if err := h.db.WithContext(ctx).First(&row, payload.ResumeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("resume not found, skipping task")
			return nil
		}
		log.Error("query resume failed", slog.Any("error", err))
		return err
	}

	log = log.With(slog.Uint64("user_id", uint64(row.UserID)))

	defer func() {
		if retErr == nil {
			return
		}
		if !isFinalAsynqAttempt(ctx) {
			return
		}

		failMsg := strings.TrimSpace(retErr.Error())
		if err := h.db.WithContext(ctx).Model(&row).Updates(map[string]any{
			"status":            database.ResumeStatusFailed,
			"last_export_error": failMsg,
		}).Error; err != nil {
			log.Error("mark resume failed", slog.Any("error", err))
		}

		notify := ExportNotifyMessage{
			Status:        "error",
			ResumeID:      row.ID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  failMsg,
		}
		if err := h.publishExportNotify(ctx, row.UserID, notify); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}()

	doc, err := resume.Decode(row.Content)
	if err != nil {
		log.Error("decode resume content failed", slog.Any("error", err))
		return err
	}
	// 行内标题优先于文档内嵌名称，两者为空时兜底。
	if row.Title != "" {
		doc.Name = row.Title
	}
	if doc.Name == "" {
		doc.Name = fmt.Sprintf("resume_%d", row.ID)
	}

	result, err := h.exporter.Export(ctx, doc, export.Options{
		Compact: payload.Compact,
		BaseURL: h.baseURL,
	})
	if errors.Is(err, export.ErrNoContent) {
		// 空文档是 no-op：不产出文件，也不视为失败。
		log.Info("resume has no sections, export skipped")
		return nil
	}
	if errors.Is(err, export.ErrExportInFlight) {
		log.Warn("export already in flight, retrying later")
		return err
	}
	if err != nil {
		log.Error("export pipeline failed", slog.Any("error", err))
		return err
	}

	// 对象键按简历 ID 分前缀，删除简历时可整个前缀清理。
	pdfKey := fmt.Sprintf("generated-resumes/%d/%d/%s.pdf", row.UserID, row.ID, uuid.NewString())
	if _, err := h.storage.UploadFile(ctx, pdfKey, bytes.NewReader(result.PDF), int64(len(result.PDF)), "application/pdf"); err != nil {
		log.Error("upload pdf to minio failed", slog.Any("error", err))
		return err
	}

	update := map[string]any{
		"pdf_object_key":    pdfKey,
		"pdf_filename":      result.Filename,
		"status":            database.ResumeStatusCompleted,
		"page_count":        result.PageCount,
		"last_export_error": "",
	}
	if result.Fallback {
		update["status"] = database.ResumeStatusFailed
		update["last_export_error"] = "delivered fallback document"
	}
	if err := h.db.WithContext(ctx).Model(&row).Updates(update).Error; err != nil {
		log.Error("update resume failed", slog.Any("error", err))
		return err
	}

	notify := ExportNotifyMessage{
		Status:        "completed",
		ResumeID:      row.ID,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
		Fallback:      result.Fallback,
		PageCount:     result.PageCount,
	}
	if result.Fallback {
		notify.ErrorCode = errcode.SystemError
		notify.ErrorMessage = "渲染失败，已交付降级文件"
	}
	if err := h.publishExportNotify(ctx, row.UserID, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	if err := h.uploadPreviewImage(ctx, &row, result.Raster); err != nil {
		log.Warn("upload resume preview failed", slog.Any("error", err))
	}

	log.Info("PDF export task completed successfully.",
		slog.Int("pages", result.PageCount),
		slog.Bool("fallback", result.Fallback),
	)
	return nil
}

func (h *ExportTaskHandler) publishExportNotify(ctx context.Context, userID uint, notify ExportNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := fmt.Sprintf("user_notify:%d", userID)
	if err := h.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

// uploadPreviewImage 复用管线的整页栅格图作为预览，避免二次渲染。
func (h *ExportTaskHandler) uploadPreviewImage(ctx context.Context, row *database.Resume, raster []byte) error {
	if len(raster) == 0 {
		return nil
	}

	objectName := fmt.Sprintf("thumbnails/resume/%d/preview.png", row.ID)
	if _, err := h.storage.UploadFile(ctx, objectName, bytes.NewReader(raster), int64(len(raster)), "image/png"); err != nil {
		return fmt.Errorf("upload preview image: %w", err)
	}

	if err := h.db.WithContext(ctx).Model(row).Update("preview_object_key", objectName).Error; err != nil {
		return fmt.Errorf("update resume preview key: %w", err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
