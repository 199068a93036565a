package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 训练计划文件上传相关常量
const (
	MimeExcel       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeExcelLegacy = "application/vnd.ms-excel"
	MimeCSV         = "text/csv"
	MimeOctetStream = "application/octet-stream"
)

var (
	AllowedPlanExtensions = []string{".xlsx", ".xls", ".csv"}
)
