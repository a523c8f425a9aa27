package types

const (
	NO_PAGINATION = 0
)

const (
	LANGUAGE_EN_KEY = "en"
	LANGUAGE_CN_KEY = "zh-CN"
)

const (
	FIXED_S3_UPLOAD_PATH_PREFIX = "/assets/s3/"
	DEFAULT_APPID               = "aaq"
)

// workspace roles for the user/workspace join
const (
	WORKSPACE_ROLE_ADMIN     = "admin"
	WORKSPACE_ROLE_READ_ONLY = "read_only"
)
