package repository

import "time"

// WallListFilter 公开徽标墙查询条件
type WallListFilter struct {
	Limit  int
	Offset int
	Sort   string
}

// WallEntry 徽标墙条目（附带评论统计）
type WallEntry struct {
	ID            uint
	Name          string
	Website       string
	LogoPath      string
	Position      int64
	CreatedAt     time.Time
	AverageRating float64
	ReviewCount   int64
}

// ReviewStats 项目已通过评论统计
type ReviewStats struct {
	AverageRating float64
	ReviewCount   int64
}

// ProjectListFilter 后台项目列表查询条件
type ProjectListFilter struct {
	Page          int
	PageSize      int
	Keyword       string
	Active        *bool
	PaymentStatus string
}

// ReviewListFilter 后台评论列表查询条件
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProjectID uint
	Approved  *bool
}

// PaymentListFilter 查询支付列表的过滤条件
type PaymentListFilter struct {
	Page        int
	PageSize    int
	Type        string
	Status      string
	EntityID    uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// TranslationListFilter 翻译列表查询条件
type TranslationListFilter struct {
	Page     int
	PageSize int
	LangCode string
	Keyword  string
}

// ActivityLogListFilter 活动日志查询条件
type ActivityLogListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Action      string
	EntityType  string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ProjectCounts 项目数量统计
type ProjectCounts struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Pending int64 `json:"pending"`
}

// ReviewCounts 评论数量统计
type ReviewCounts struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Pending  int64 `json:"pending"`
}

// ReviewDigest 最近评论（附带项目名称）
type ReviewDigest struct {
	ID          uint      `json:"id"`
	ProjectID   uint      `json:"project_id"`
	ProjectName string    `json:"project_name"`
	AuthorName  string    `json:"author_name"`
	Rating      int       `json:"rating"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActivityEntry 最近操作（附带操作人用户名，系统动作为空）
type ActivityEntry struct {
	ID         uint      `json:"id"`
	UserID     *uint     `json:"user_id"`
	Username   string    `json:"username"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
}
