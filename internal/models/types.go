package models

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}

type CopyItem struct {
	RemoteKey string `json:"remote_key"`
	LocalPath string `json:"local_path"`
	Size      int64  `json:"size"`
	Skipped   bool   `json:"skipped,omitempty"`
}

type CopyResult struct {
	BucketName     string     `json:"bucket_name"`
	SourceURL      string     `json:"source_url"`
	Destination    string     `json:"destination"`
	Recursive      bool       `json:"recursive"`
	Items          []CopyItem `json:"items"`
	TotalFiles     int        `json:"total_files"`
	TotalSizeBytes int64      `json:"total_size_bytes"`
	TotalSizeHuman string     `json:"total_size_human"`
	OperationTime  string     `json:"operation_time"`
	CopyDuration   string     `json:"copy_duration"`
}

// Add records a transferred item. Skipped items are listed but not counted.
func (r *CopyResult) Add(item CopyItem) {
	r.Items = append(r.Items, item)
	if item.Skipped {
		return
	}
	r.TotalFiles++
	r.TotalSizeBytes += item.Size
}
