// Package types defines core data types and enums shared across the
// LaTeX project translator.
package types

// Config 应用配置
type Config struct {
	OpenAIAPIKey   string `json:"openai_api_key"`
	OpenAIBaseURL  string `json:"openai_base_url"` // OpenAI 兼容 API 的 Base URL
	OpenAIModel    string `json:"openai_model"`
	TargetLanguage string `json:"target_language"` // 目标语言: japanese, chinese, english
	Compiler       string `json:"compiler"`        // "pdflatex" 或 "xelatex"
	CompileTimeout int    `json:"compile_timeout"` // 编译超时（秒）
	Concurrency    int    `json:"concurrency"`     // 翻译并发数
	WorkDirectory  string `json:"work_directory"`
}

// TargetLanguage 翻译目标语言枚举
type TargetLanguage string

const (
	LanguageJapanese TargetLanguage = "japanese"
	LanguageChinese  TargetLanguage = "chinese"
	LanguageEnglish  TargetLanguage = "english"
)

// DisplayName returns the language name used inside translation prompts.
func (l TargetLanguage) DisplayName() string {
	switch l {
	case LanguageJapanese:
		return "Japanese"
	case LanguageChinese:
		return "Simplified Chinese"
	case LanguageEnglish:
		return "English"
	default:
		return string(l)
	}
}

// LatexFile 单个 LaTeX 源文件（path + content 对）
type LatexFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// TranslationResult 单文件翻译结果
type TranslationResult struct {
	Path              string `json:"path"`
	OriginalContent   string `json:"original_content"`
	TranslatedContent string `json:"translated_content"`
	SpanCount         int    `json:"span_count"` // 实际翻译的文本片段数
}

// CompileErrorType 编译错误类型
type CompileErrorType string

const (
	CompileErrorTypeError   CompileErrorType = "compile_error"
	CompileErrorTypeTimeout CompileErrorType = "compile_timeout"
)

// CompileResult 编译结果
type CompileResult struct {
	Success     bool             `json:"success"`
	PDFPath     string           `json:"pdf_path"`
	Log         string           `json:"log"`
	ErrorType   CompileErrorType `json:"error_type,omitempty"`
	CriticalLog string           `json:"critical_log,omitempty"` // 从日志中提取的关键错误行
}

// ErrorCode 错误代码枚举
type ErrorCode string

const (
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrParse        ErrorCode = "PARSE_ERROR"
	ErrCompile      ErrorCode = "COMPILE_ERROR"
	ErrTranslation  ErrorCode = "TRANSLATION_ERROR"
	ErrConfig       ErrorCode = "CONFIG_ERROR"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
