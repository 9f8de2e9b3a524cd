package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"resumecraft/internal/api/middleware"
	"resumecraft/internal/database"
	"resumecraft/internal/resume"
	"resumecraft/internal/tasks"
)

// objectStore 是简历接口依赖的对象存储能力子集，
// 生产实现是 *storage.Client。
type objectStore interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	GeneratePresignedURLWithParams(ctx context.Context, objectKey string, duration time.Duration, params map[string]string) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

// ResumeHandler 负责处理与简历文档相关的 API 请求。
type ResumeHandler struct {
	db          *gorm.DB
	asynqClient *asynq.Client
	storage     objectStore
	maxResumes  int
}

// NewResumeHandler 构造 ResumeHandler。
func NewResumeHandler(db *gorm.DB, asynqClient *asynq.Client, store objectStore, maxResumes int) *ResumeHandler {
	return &ResumeHandler{
		db:          db,
		asynqClient: asynqClient,
		storage:     store,
		maxResumes:  maxResumes,
	}
}

var errInvalidResumeID = errors.New("invalid resume id")

type createResumeRequest struct {
	Title   string         `json:"title" binding:"required"`
	Content datatypes.JSON `json:"content"`
}

type resumeListItem struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	PreviewURL string    `json:"preview_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type resumeResponse struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Content   datatypes.JSON `json:"content"`
	Status    string         `json:"status"`
	PageCount int            `json:"page_count,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateResume 保存一份新的简历，超过限额则提示升级。
// 未提供 content 时生成默认文档（一个空白个人信息段落 + 默认主题）。
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()

	var count int64
	if err := h.db.WithContext(ctx).
		Model(&database.Resume{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		Internal(c, "failed to count resumes")
		return
	}

	if h.maxResumes > 0 && count >= int64(h.maxResumes) {
		Forbidden(c, "resume limit reached")
		return
	}

	content := req.Content
	if len(content) == 0 {
		doc := resume.NewDocument(req.Title)
		encoded, err := resume.Encode(doc)
		if err != nil {
			Internal(c, "failed to build default document")
			return
		}
		content = encoded
	} else if _, err := resume.Decode(content); err != nil {
		BadRequest(c, "invalid resume content")
		return
	}

	row := database.Resume{
		Title:   req.Title,
		Content: content,
		UserID:  userID,
		Status:  database.ResumeStatusIdle,
	}

	if err := h.db.WithContext(ctx).Create(&row).Error; err != nil {
		Internal(c, "failed to create resume")
		return
	}

	if err := h.setActiveResumeID(ctx, userID, &row.ID); err != nil {
		Internal(c, "failed to mark active resume")
		return
	}

	c.JSON(http.StatusCreated, newResumeResponse(row))
}

// GetLatestResume 返回用户最近编辑的简历，没有则返回默认文档。
func (h *ResumeHandler) GetLatestResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	row, err := h.findActiveOrLatestResume(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			doc := resume.NewDocument(defaultResumeTitle)
			encoded, encErr := resume.Encode(doc)
			if encErr != nil {
				Internal(c, "failed to build default document")
				return
			}
			c.JSON(http.StatusOK, resumeResponse{
				ID:      0,
				Title:   defaultResumeTitle,
				Content: datatypes.JSON(encoded),
				Status:  database.ResumeStatusIdle,
			})
			return
		}
		Internal(c, "failed to query latest resume")
		return
	}

	c.JSON(http.StatusOK, newResumeResponse(*row))
}

// ListResumes 列出用户全部简历，附带预览图的预签名链接。
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	var rows []database.Resume
	if err := h.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		Internal(c, "failed to list resumes")
		return
	}

	items := make([]resumeListItem, 0, len(rows))
	for _, r := range rows {
		item := resumeListItem{
			ID:        r.ID,
			Title:     r.Title,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		}
		if r.PreviewObjectKey != "" {
			if url, err := h.storage.GeneratePresignedURL(ctx, r.PreviewObjectKey, 15*time.Minute); err == nil {
				item.PreviewURL = url
			}
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, items)
}

// GetResume 返回指定 ID 的简历并标记为当前正在编辑。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	row, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondResumeLookupError(c, err)
		return
	}

	if err := h.setActiveResumeID(c.Request.Context(), userID, &row.ID); err != nil {
		Internal(c, "failed to mark active resume")
		return
	}

	c.JSON(http.StatusOK, newResumeResponse(*row))
}

// UpdateResume 覆盖指定简历的标题与完整文档内容。
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if len(req.Content) == 0 {
		BadRequest(c, "content is required")
		return
	}
	if _, err := resume.Decode(req.Content); err != nil {
		BadRequest(c, "invalid resume content")
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	row, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondResumeLookupError(c, err)
		return
	}

	ctx := c.Request.Context()
	updates := map[string]any{
		"title":   req.Title,
		"content": req.Content,
	}
	if err := h.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
		Internal(c, "failed to update resume")
		return
	}

	if err := h.db.WithContext(ctx).First(row, row.ID).Error; err != nil {
		Internal(c, "failed to reload resume")
		return
	}

	if err := h.setActiveResumeID(ctx, userID, &row.ID); err != nil {
		Internal(c, "failed to mark active resume")
		return
	}

	c.JSON(http.StatusOK, newResumeResponse(*row))
}

// DeleteResume 删除指定简历，并尝试回落到最近一份。
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	row, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondResumeLookupError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Delete(&database.Resume{}, row.ID).Error; err != nil {
		Internal(c, "failed to delete resume")
		return
	}

	// 生成的 PDF 与预览图随行一并清理。清理失败不影响删除结果，
	// 只记日志。
	log := loggerFromRequest(c)
	for _, prefix := range resumeObjectPrefixes(userID, row.ID) {
		if err := h.storage.DeletePrefix(ctx, prefix); err != nil {
			log.Warn("cleanup resume objects failed",
				slog.String("prefix", prefix),
				slog.Any("error", err),
			)
		}
	}

	if err := h.assignLatestResumeAsActive(ctx, userID); err != nil {
		Internal(c, "failed to update active resume")
		return
	}

	c.Status(http.StatusNoContent)
}

// resumeObjectPrefixes 列出一份简历名下全部生成产物的对象前缀。
// 与 worker 侧的对象键布局保持一致。
func resumeObjectPrefixes(userID, resumeID uint) []string {
	return []string{
		fmt.Sprintf("generated-resumes/%d/%d/", userID, resumeID),
		fmt.Sprintf("thumbnails/resume/%d/", resumeID),
	}
}

type addSectionRequest struct {
	Type  resume.SectionType `json:"type" binding:"required"`
	Title string             `json:"title"`
}

// AddSection 在文档末尾追加一个段落，使用该类型的默认内容。
func (h *ResumeHandler) AddSection(c *gin.Context) {
	var req addSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	h.mutateDocument(c, func(doc *resume.Document) error {
		doc.Sections = resume.AddSection(doc.Sections, req.Type, req.Title)
		return nil
	})
}

type updateSectionRequest struct {
	Title *string        `json:"title"`
	Data  datatypes.JSON `json:"data"`
}

// UpdateSection 修改指定段落的标题或内容，ID 与位置保持不变。
func (h *ResumeHandler) UpdateSection(c *gin.Context) {
	var req updateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	sectionID := c.Param("sectionId")

	h.mutateDocument(c, func(doc *resume.Document) error {
		var found bool
		var decodeErr error
		doc.Sections = resume.UpdateSection(doc.Sections, sectionID, func(s resume.Section) resume.Section {
			found = true
			if req.Title != nil {
				s.Title = *req.Title
			}
			if len(req.Data) > 0 {
				// 借用 Section 的信封解码：按段落类型还原具体负载。
				envelope := fmt.Sprintf(`{"id":%q,"type":%q,"position":%d,"data":%s}`,
					s.ID, s.Type, s.Position, string(req.Data))
				var decoded resume.Section
				if err := decoded.UnmarshalJSON([]byte(envelope)); err != nil {
					decodeErr = err
					return s
				}
				s.Data = decoded.Data
			}
			return s
		})
		if decodeErr != nil {
			return fmt.Errorf("decode section data: %w", decodeErr)
		}
		if !found {
			return errSectionNotFound
		}
		return nil
	})
}

// RemoveSection 删除指定段落，其余段落位置重新编号。
func (h *ResumeHandler) RemoveSection(c *gin.Context) {
	sectionID := c.Param("sectionId")

	h.mutateDocument(c, func(doc *resume.Document) error {
		before := len(doc.Sections)
		doc.Sections = resume.RemoveSection(doc.Sections, sectionID)
		if len(doc.Sections) == before {
			return errSectionNotFound
		}
		return nil
	})
}

type reorderSectionsRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ReorderSections 把一个段落从 from 移动到 to，越界则原样返回。
func (h *ResumeHandler) ReorderSections(c *gin.Context) {
	var req reorderSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	h.mutateDocument(c, func(doc *resume.Document) error {
		doc.Sections = resume.ReorderSections(doc.Sections, req.From, req.To)
		return nil
	})
}

// UpdateTheme 覆盖文档主题，非法取值在渲染时回退默认。
func (h *ResumeHandler) UpdateTheme(c *gin.Context) {
	var theme resume.Theme
	if err := c.ShouldBindJSON(&theme); err != nil {
		BadRequest(c, err.Error())
		return
	}

	h.mutateDocument(c, func(doc *resume.Document) error {
		doc.Theme = theme
		return nil
	})
}

var errSectionNotFound = errors.New("section not found")

// mutateDocument 是段落操作的公共骨架：加载 → 解码 → 应用 → 编码 → 落库。
func (h *ResumeHandler) mutateDocument(c *gin.Context, apply func(*resume.Document) error) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	row, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondResumeLookupError(c, err)
		return
	}

	doc, err := resume.Decode(row.Content)
	if err != nil {
		Internal(c, "failed to decode resume")
		return
	}

	if err := apply(doc); err != nil {
		if errors.Is(err, errSectionNotFound) {
			NotFound(c, "section not found")
		} else {
			BadRequest(c, err.Error())
		}
		return
	}

	encoded, err := resume.Encode(doc)
	if err != nil {
		Internal(c, "failed to encode resume")
		return
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Model(row).Update("content", datatypes.JSON(encoded)).Error; err != nil {
		Internal(c, "failed to save resume")
		return
	}
	if err := h.db.WithContext(ctx).First(row, row.ID).Error; err != nil {
		Internal(c, "failed to reload resume")
		return
	}

	c.JSON(http.StatusOK, newResumeResponse(*row))
}

type exportResumeRequest struct {
	Compact bool `json:"compact"`
}

// ExportResume 将 PDF 导出任务入队并立即返回 202。
func (h *ResumeHandler) ExportResume(c *gin.Context) {
	var req exportResumeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, err.Error())
			return
		}
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	row, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondResumeLookupError(c, err)
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewPDFExportTask(row.ID, correlationID, req.Compact)
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(5))
	if err != nil {
		Internal(c, "failed to enqueue pdf export")
		return
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Model(row).Update("status", database.ResumeStatusGenerating).Error; err != nil {
		Internal(c, "failed to mark resume generating")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "PDF export request accepted",
		"task_id": info.ID,
	})
}

// GetDownloadLink 生成简历 PDF 的预签名下载链接。
// 下载文件名取导出时记录的交付名（降级产物带 _error 后缀），
// 通过 Content-Disposition 下发。
func (h *ResumeHandler) GetDownloadLink(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	row, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondResumeLookupError(c, err)
		return
	}

	if row.PdfObjectKey == "" {
		Conflict(c, "pdf not ready")
		return
	}

	params := map[string]string{
		"response-content-disposition": fmt.Sprintf(`attachment; filename="%s"`, downloadFilename(*row)),
	}
	signedURL, err := h.storage.GeneratePresignedURLWithParams(c.Request.Context(), row.PdfObjectKey, 5*time.Minute, params)
	if err != nil {
		Internal(c, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// GetPreviewLink 生成简历预览图的预签名链接。
func (h *ResumeHandler) GetPreviewLink(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	row, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondResumeLookupError(c, err)
		return
	}

	if row.PreviewObjectKey == "" {
		Conflict(c, "preview not ready")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(c.Request.Context(), row.PreviewObjectKey, 15*time.Minute)
	if err != nil {
		Internal(c, "failed to generate preview link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

func (h *ResumeHandler) setActiveResumeID(ctx context.Context, userID uint, resumeID *uint) error {
	var value any
	if resumeID != nil {
		value = *resumeID
	} else {
		value = nil
	}
	return h.db.WithContext(ctx).Model(&database.User{}).
		Where("id = ?", userID).
		Update("active_resume_id", value).Error
}

func (h *ResumeHandler) assignLatestResumeAsActive(ctx context.Context, userID uint) error {
	var row database.Resume
	err := h.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return h.setActiveResumeID(ctx, userID, nil)
	case err != nil:
		return err
	default:
		return h.setActiveResumeID(ctx, userID, &row.ID)
	}
}

func (h *ResumeHandler) findActiveOrLatestResume(ctx context.Context, userID uint) (*database.Resume, error) {
	var user database.User
	if err := h.db.WithContext(ctx).
		Select("id", "active_resume_id").
		First(&user, userID).Error; err != nil {
		return nil, err
	}

	if user.ActiveResumeID != nil {
		var row database.Resume
		if err := h.db.WithContext(ctx).
			Where("id = ? AND user_id = ?", *user.ActiveResumeID, userID).
			First(&row).Error; err == nil {
			return &row, nil
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var latest database.Resume
	err := h.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = h.setActiveResumeID(ctx, userID, nil)
		}
		return nil, err
	}

	if err := h.setActiveResumeID(ctx, userID, &latest.ID); err != nil {
		return nil, err
	}
	return &latest, nil
}

func (h *ResumeHandler) getResumeForUser(ctx context.Context, idParam string, userID uint) (*database.Resume, error) {
	resumeID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return nil, errInvalidResumeID
	}

	var row database.Resume
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", uint(resumeID), userID).
		First(&row).Error; err != nil {
		return nil, err
	}

	return &row, nil
}

// downloadFilename 决定下载链接交付的文件名。优先用导出时持久化的
// 交付名；历史数据没有记录时按标题兜底。
func downloadFilename(row database.Resume) string {
	if row.PdfFilename != "" {
		return row.PdfFilename
	}
	title := row.Title
	if title == "" {
		title = fmt.Sprintf("resume_%d", row.ID)
	}
	return title + ".pdf"
}

func loggerFromRequest(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	return slog.Default()
}

func respondResumeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidResumeID):
		BadRequest(c, "invalid resume id")
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "resume not found")
	default:
		Internal(c, "failed to query resume")
	}
}

func userIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case uint64:
		return uint(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}

const defaultResumeTitle = "我的第一份简历"

func newResumeResponse(row database.Resume) resumeResponse {
	return resumeResponse{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content,
		Status:    row.Status,
		PageCount: row.PageCount,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
