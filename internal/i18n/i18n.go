// Package i18n provides internationalization support for the packaging planner.
// It handles translation of error messages and the locally produced
// advisory fallback analysis.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// LocaleEnglish is the English locale.
	LocaleEnglish = "en"
	// LocaleChinese is the simplified Chinese locale.
	LocaleChinese = "zh-CN"
	// DefaultLocale is the default language locale (English).
	DefaultLocale = LocaleEnglish
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale, then to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if normalized, ok := NormalizeLocale(locale); ok {
		locale = normalized
	} else {
		locale = DefaultLocale
	}

	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// NormalizeLocale maps a language tag onto a supported locale.
// "zh", "zh-cn", "zh-Hans" and "zh_CN" all become "zh-CN"; "en-US" becomes "en".
func NormalizeLocale(tag string) (string, bool) {
	tag = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(tag, "_", "-")))
	if tag == "" {
		return "", false
	}
	base := tag
	if idx := strings.Index(tag, "-"); idx > 0 {
		base = tag[:idx]
	}
	switch base {
	case "en":
		return LocaleEnglish, true
	case "zh":
		return LocaleChinese, true
	}
	return "", false
}

// SupportedLocales lists the locales with full message sets.
func SupportedLocales() []string {
	return []string{LocaleEnglish, LocaleChinese}
}

// GetLocale extracts the locale from the gin context.
// Walks the Accept-Language preferences in order and falls back to DefaultLocale.
func GetLocale(c *gin.Context) string {
	if locale, ok := LocaleFromHeader(c.GetHeader(AcceptLanguageHeader)); ok {
		return locale
	}
	return DefaultLocale
}

// LocaleFromHeader returns the first supported locale in an Accept-Language value
// such as "fr-FR,zh-CN;q=0.9,en;q=0.8".
func LocaleFromHeader(header string) (string, bool) {
	for _, part := range strings.Split(header, ",") {
		lang := strings.TrimSpace(strings.Split(part, ";")[0])
		if locale, ok := NormalizeLocale(lang); ok {
			return locale, true
		}
	}
	return "", false
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		LocaleEnglish: {
			ErrKeyInvalidRequest:       "Invalid request",
			ErrKeyInvalidRequestBody:   "Invalid request body",
			ErrKeyInternalError:        "An unexpected error occurred",
			ErrKeyUnauthorized:         "Unauthorized",
			ErrKeyAPIKeyRequired:       "API key is required",
			ErrKeyInvalidAPIKey:        "Invalid API key",
			ErrKeyForbidden:            "Forbidden",
			ErrKeyNotFound:             "Not found",
			ErrKeyRateLimitExceeded:    "Too many requests, please try again later",
			ErrKeyConflict:             "Conflict",
			ErrKeyInvalidToken:         "Invalid or expired token",
			ErrKeyTokenRequired:        "Authentication token is required",
			ErrKeyTimeout:              "Request timed out",
			ErrKeyServiceUnavailable:   "Storage is temporarily unavailable",
			ErrKeyInvalidConfiguration: "Invalid packaging configuration",
			ErrKeyInventoryNotFound:    "Carton not found in inventory",
			ErrKeyHistoryNotFound:      "Calculation not found in history",
			ErrKeyInventoryBatchSize:   "Inventory batch must contain between 1 and 1000 cartons",
			ErrKeyNoValidRows:          "No valid ID,L,W,H rows found",

			SuccessKeyPlanCalculated: "Packaging plan calculated successfully",

			AnalysisKeyUnavailable:   "AI Unavailable",
			AnalysisKeyNoMaterial:    "N/A",
			AnalysisKeyReasonConnect: "Could not connect to AI",
			AnalysisKeyReasonAPIKey:  "Please check API key",
			AnalysisKeyReasonValid:   "Calculation results are still valid",
			PromptKeyLanguage:        "English",
		},
		LocaleChinese: {
			ErrKeyInvalidRequest:       "请求无效",
			ErrKeyInvalidRequestBody:   "请求体无效",
			ErrKeyInternalError:        "发生意外错误",
			ErrKeyUnauthorized:         "未授权",
			ErrKeyAPIKeyRequired:       "需要 API 密钥",
			ErrKeyInvalidAPIKey:        "API 密钥无效",
			ErrKeyForbidden:            "禁止访问",
			ErrKeyNotFound:             "未找到",
			ErrKeyRateLimitExceeded:    "请求过多，请稍后再试",
			ErrKeyConflict:             "冲突",
			ErrKeyInvalidToken:         "令牌无效或已过期",
			ErrKeyTokenRequired:        "需要身份验证令牌",
			ErrKeyTimeout:              "请求超时",
			ErrKeyServiceUnavailable:   "存储暂时不可用",
			ErrKeyInvalidConfiguration: "包装配置无效",
			ErrKeyInventoryNotFound:    "库存中未找到该纸箱",
			ErrKeyHistoryNotFound:      "历史记录中未找到该计算",
			ErrKeyInventoryBatchSize:   "库存批次必须包含 1 到 1000 个纸箱",
			ErrKeyNoValidRows:          "未找到有效的 ID,L,W,H 行",

			SuccessKeyPlanCalculated: "包装方案计算完成",

			AnalysisKeyUnavailable:   "AI 分析暂不可用",
			AnalysisKeyNoMaterial:    "N/A",
			AnalysisKeyReasonConnect: "无法连接到 AI 服务",
			AnalysisKeyReasonAPIKey:  "请检查 API 密钥配置",
			AnalysisKeyReasonValid:   "计算结果仍然有效",
			PromptKeyLanguage:        "简体中文",
		},
	}
}
