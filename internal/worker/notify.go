package worker

// 统一的 WebSocket 消息协议（通过 Redis Pub/Sub 转发给前端）。
// 注意：这里的字段名与前端解析保持一致。
type ExportNotifyMessage struct {
	Status        string `json:"status"`
	ResumeID      uint   `json:"resume_id"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
	// Fallback 为真表示交付的是降级文件而非完整渲染结果。
	Fallback  bool `json:"fallback,omitempty"`
	PageCount int  `json:"page_count,omitempty"`
}
