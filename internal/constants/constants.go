package constants

// 支付状态常量
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

// 支付类型常量（与被激活的实体一一对应）
const (
	PaymentTypeLogo   = "logo"
	PaymentTypeReview = "review"
)

// 实体付费状态常量
const (
	EntityPaymentNone      = "none"
	EntityPaymentPending   = "pending"
	EntityPaymentCompleted = "completed"
)

// CryptoBot 支付完成按钮
const (
	CryptoBotPaidButtonLogo   = "viewLogo"
	CryptoBotPaidButtonReview = "viewProject"
)

// 后台角色常量
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// 语言常量
const (
	LangEnglish   = "en"
	LangRussian   = "ru"
	LangUkrainian = "uk"
	DefaultLang   = LangEnglish
	LangCookie    = "lang"
	LangQueryKey  = "lang"
)

// LanguageNames 语言显示名称
var LanguageNames = map[string]string{
	LangEnglish:   "English",
	LangRussian:   "Русский",
	LangUkrainian: "Українська",
}

// 墙列表查询常量
const (
	WallDefaultLimit = 35
	WallMaxLimit     = 100
	WallSortPosition = "position"
	WallSortCreated  = "created_at"
	WallSortName     = "name"
)

// 评论约束
const (
	ReviewRatingMin     = 1
	ReviewRatingMax     = 5
	ReviewCommentMaxLen = 2000
)

// 上传场景
const (
	UploadSceneLogo = "logos"
)

// 队列与任务类型
const (
	QueueCritical       = "critical"
	QueueDefault        = "default"
	QueueLow            = "low"
	TaskPaymentCheck    = "payment:check"
	TaskSitemapGenerate = "sitemap:generate"
	TaskBackupCreate    = "backup:create"
)

// 设置键
const (
	SettingKeyGeneral      = "site_general"
	SettingKeySEO          = "site_seo"
	SettingKeyIntegrations = "site_integrations"
)

// 活动日志动作
const (
	ActivityLogin              = "login"
	ActivityAddLogo            = "add_logo"
	ActivityAddReview          = "add_review"
	ActivityPaymentCompleted   = "payment_completed"
	ActivityToggleLogo         = "toggle_logo"
	ActivityDeleteLogo         = "delete_logo"
	ActivityApproveReview      = "approve_review"
	ActivityDisapproveReview   = "disapprove_review"
	ActivityDeleteReview       = "delete_review"
	ActivityUpdateSettings     = "update_settings"
	ActivityUpsertTranslation  = "upsert_translation"
	ActivityDeleteTranslation  = "delete_translation"
	ActivityCreateUser         = "create_user"
	ActivityUpdateUser         = "update_user"
	ActivityToggleUser         = "toggle_user"
	ActivityDeleteUser         = "delete_user"
	ActivityCreateBackup       = "create_backup"
	ActivityDownloadBackup     = "download_backup"
	ActivityDeleteBackup       = "delete_backup"
	ActivityManualPaymentCheck = "check_payment"
)

// 活动日志实体类型
const (
	EntityTypeProject     = "project"
	EntityTypeReview      = "review"
	EntityTypePayment     = "payment"
	EntityTypeUser        = "user"
	EntityTypeSettings    = "settings"
	EntityTypeTranslation = "translation"
	EntityTypeBackup      = "backup"
)
