package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL          = "error.internal"
	ERROR_NOT_FOUND         = "error.notfound"
	ERROR_INVALIDARGUMENT   = "error.invalidargument"
	ERROR_PERMISSION_DENIED = "error.permission.denied"
	ERROR_UNAUTHORIZED      = "error.unauthorized"
	ERROR_EXIST             = "error.exist"
	ERROR_FORBIDDEN         = "error.forbidden"
	ERROR_TOO_MANY_REQUESTS = "error.tooManyRequests"

	ERROR_QUOTA_EXCEEDED        = "error.quota.exceeded"
	ERROR_TITLE_REQUIRED        = "error.content.title.required"
	ERROR_TEXT_REQUIRED         = "error.content.text.required"
	ERROR_TAG_NAME_EXIST        = "error.tag.name.exist"
	ERROR_USERNAME_EXIST        = "error.user.username.exist"
	ERROR_REGISTER_CLOSED       = "error.user.register.closed"
	ERROR_WORKSPACE_NOT_MEMBER  = "error.workspace.not_member"
	ERROR_UNSUPPORTED_FILE_TYPE = "error.upload.unsupported_file_type"

	ERROR_INVALID_TOKEN   = "error.invalid.token"
	ERROR_INVALID_ACCOUNT = "error.invalid.account"
)
