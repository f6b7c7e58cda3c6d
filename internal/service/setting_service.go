package service

import (
	"strings"

	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/repository"
)

// 店面可配置的设置键白名单
var storeSettingKeys = []string{
	constants.SettingKeyPaymentMode,
	constants.SettingKeyPixKey,
	constants.SettingKeyQRCodeURL,
	constants.SettingKeyStoreNotice,
}

// SettingService 站点设置服务
type SettingService struct {
	settingRepo repository.SettingRepository
}

// NewSettingService 创建设置服务
func NewSettingService(settingRepo repository.SettingRepository) *SettingService {
	return &SettingService{settingRepo: settingRepo}
}

// StoreSettings 返回全部店面设置，未配置的键返回空值。
func (s *SettingService) StoreSettings() (map[string]string, error) {
	settings, err := s.settingRepo.ListByKeys(storeSettingKeys)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(storeSettingKeys))
	for _, key := range storeSettingKeys {
		result[key] = ""
	}
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}
	if result[constants.SettingKeyPaymentMode] == "" {
		result[constants.SettingKeyPaymentMode] = constants.PaymentModeInstant
	}
	return result, nil
}

// UpdateSetting 更新单个设置，键不在白名单内拒绝。
func (s *SettingService) UpdateSetting(key, value string) error {
	trimmed := strings.TrimSpace(key)
	if !validSettingKey(trimmed) {
		return ErrSettingKeyInvalid
	}
	if trimmed == constants.SettingKeyPaymentMode && !constants.ValidPaymentMode(value) {
		return ErrPaymentModeInvalid
	}

	_, err := s.settingRepo.Upsert(trimmed, value)
	return err
}

// PaymentMode 当前店面支付模式，未配置时默认即时交付。
func (s *SettingService) PaymentMode() (string, error) {
	setting, err := s.settingRepo.GetByKey(constants.SettingKeyPaymentMode)
	if err != nil {
		return "", err
	}
	if setting == nil || !constants.ValidPaymentMode(setting.Value) {
		return constants.PaymentModeInstant, nil
	}
	return setting.Value, nil
}

func validSettingKey(key string) bool {
	for _, allowed := range storeSettingKeys {
		if key == allowed {
			return true
		}
	}
	return false
}
