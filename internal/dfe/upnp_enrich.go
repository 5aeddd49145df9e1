package dfe

import (
	"context"
	"strings"
	"time"

	"github.com/huin/goupnp"
	"go.uber.org/zap"

	"github.com/aegisnet/appliance/pkg/models"
)

// UPnPEnrichment is additive evidence gathered from a single SSDP/UPnP
// discovery sweep, keyed by the IP extracted from each device's location
// URL. It feeds the composite classifier only; it never drives a host's
// DeviceType directly.
type UPnPEnrichment struct {
	DeviceType   models.DeviceType
	Manufacturer string
	ModelName    string
	FriendlyName string
}

// DiscoverUPnP runs a single bounded UPnP/SSDP discovery sweep and returns
// a map of IP to enrichment evidence. Errors and per-device probe failures
// are logged and skipped -- this is best-effort evidence gathering, not a
// required step in the scan.
func DiscoverUPnP(ctx context.Context, window time.Duration, logger *zap.Logger) map[string]UPnPEnrichment {
	out := make(map[string]UPnPEnrichment)

	ctx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	devices, err := goupnp.DiscoverDevicesCtx(ctx, "ssdp:all")
	if err != nil {
		if ctx.Err() == nil {
			logger.Debug("upnp discovery failed", zap.Error(err))
		}
		return out
	}

	for i := range devices {
		maybe := &devices[i]
		if maybe.Err != nil || maybe.Root == nil || maybe.Location == nil {
			continue
		}
		ip := maybe.Location.Hostname()
		if ip == "" {
			continue
		}
		dev := &maybe.Root.Device
		out[ip] = UPnPEnrichment{
			DeviceType:   inferDeviceTypeFromUPnP(dev.DeviceType),
			Manufacturer: dev.Manufacturer,
			ModelName:    dev.ModelName,
			FriendlyName: dev.FriendlyName,
		}
	}
	return out
}

// inferDeviceTypeFromUPnP guesses a device-type hint from the UPnP device
// type URN. Ordered substring matching, same shape as the OUI/manufacturer
// classifier in classifier.go.
func inferDeviceTypeFromUPnP(deviceType string) models.DeviceType {
	dt := strings.ToLower(deviceType)

	switch {
	case strings.Contains(dt, "mediarenderer"),
		strings.Contains(dt, "mediaserver"):
		return models.DeviceTypeNAS

	case strings.Contains(dt, "printer"):
		return models.DeviceTypePrinter

	case strings.Contains(dt, "internetgateway"),
		strings.Contains(dt, "wandevice"),
		strings.Contains(dt, "wanconnectiondevice"):
		return models.DeviceTypeRouter

	case strings.Contains(dt, "wlanaccess"):
		return models.DeviceTypeAccessPoint

	case strings.Contains(dt, "digitalsecuritycamera"):
		return models.DeviceTypeCamera

	case strings.Contains(dt, "lightingcontrols"),
		strings.Contains(dt, "binarylight"),
		strings.Contains(dt, "dimmablelight"),
		strings.Contains(dt, "hvac"),
		strings.Contains(dt, "sensormanagement"):
		return models.DeviceTypeIoT

	default:
		return models.DeviceTypeUnknown
	}
}
