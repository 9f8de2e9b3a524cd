package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypePDFExport = "pdf:export"
)

// PDFExportPayload 描述一次导出任务所需的最小信息。
type PDFExportPayload struct {
	ResumeID      uint   `json:"resume_id"`
	CorrelationID string `json:"correlation_id"`
	// Compact 开启紧凑导出（整页 0.95 缩放并压缩行距与留白）。
	Compact bool `json:"compact"`
}

// NewPDFExportTask 构造一个新的简历导出任务。
func NewPDFExportTask(id uint, correlationID string, compact bool) (*asynq.Task, error) {
	payload, err := json.Marshal(PDFExportPayload{
		ResumeID:      id,
		CorrelationID: correlationID,
		Compact:       compact,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePDFExport, payload), nil
}
