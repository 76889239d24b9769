package usecases

import (
	"context"
	"fmt"
	"time"

	"acs-console/internal/acs"
	"acs-console/internal/infra/cache"
)

const (
	_deviceListCacheKey    = "acs:devices"
	_deviceCacheKeyPrefix  = "acs:device:"
	_defaultDeviceCacheTTL = 30 * time.Second
)

// SimpleDeviceService is a read-through cached view over the ACS device
// inventory. The ACS remains the source of truth; entries expire on a short
// TTL rather than being invalidated.
type SimpleDeviceService struct {
	acsClient acs.Client
	cache     cache.Cache
	ttl       time.Duration
}

var _ DeviceService = (*SimpleDeviceService)(nil)

func NewDeviceService(acsClient acs.Client, deviceCache cache.Cache, ttl time.Duration) *SimpleDeviceService {
	if ttl == 0 {
		ttl = _defaultDeviceCacheTTL
	}

	return &SimpleDeviceService{
		acsClient: acsClient,
		cache:     deviceCache,
		ttl:       ttl,
	}
}

func (s *SimpleDeviceService) AllDevices(ctx context.Context) ([]map[string]any, error) {
	value, err := s.cache.GetOrSet(ctx, _deviceListCacheKey, s.ttl, func() (any, error) {
		return s.acsClient.ListDevices(ctx)
	})
	if err != nil {
		return nil, err
	}

	return toDeviceList(value)
}

func (s *SimpleDeviceService) GetDevice(ctx context.Context, deviceID string) (map[string]any, error) {
	value, err := s.cache.GetOrSet(ctx, _deviceCacheKeyPrefix+deviceID, s.ttl, func() (any, error) {
		return s.acsClient.GetDevice(ctx, deviceID)
	})
	if err != nil {
		return nil, err
	}

	return toDeviceMap(value)
}

// toDeviceList normalizes cached values. The redis backend round-trips values
// through JSON, so a stored []map[string]any may come back as []any.
func toDeviceList(value any) ([]map[string]any, error) {
	switch v := value.(type) {
	case []map[string]any:
		return v, nil
	case []any:
		devices := make([]map[string]any, 0, len(v))
		for _, item := range v {
			device, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("unexpected cached device entry type %T", item)
			}
			devices = append(devices, device)
		}
		return devices, nil
	default:
		return nil, fmt.Errorf("unexpected cached device list type %T", value)
	}
}

func toDeviceMap(value any) (map[string]any, error) {
	device, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected cached device type %T", value)
	}
	return device, nil
}
