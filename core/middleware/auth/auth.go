package auth

import (
	"crypto/subtle"
	"fmt"
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Header carries the shared webhook secret.
const Header = "X-Webhook-Secret"

// Config holds the webhook protection settings.
type Config struct {
	// Secret must match the X-Webhook-Secret header. Empty disables the check.
	Secret string
	// AllowedIPs is a comma-separated list of IPs or CIDR ranges.
	// Empty allows every caller.
	AllowedIPs string
}

// New returns a middleware rejecting callers without the secret with 401
// and callers outside the allow-list with 403. An allow-list entry that is
// neither an IP nor a CIDR range is a configuration error.
func New(cfg Config) (fiber.Handler, error) {
	allow, err := parseAllowList(cfg.AllowedIPs)
	if err != nil {
		return nil, err
	}

	return func(c *fiber.Ctx) error {
		if len(allow) > 0 && !allowed(allow, c.IP()) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}

		if cfg.Secret != "" {
			got := c.Get(Header)
			if subtle.ConstantTimeCompare([]byte(got), []byte(cfg.Secret)) != 1 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Unauthorized",
				})
			}
		}

		return c.Next()
	}, nil
}

func parseAllowList(raw string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cidr := part
		if !strings.Contains(cidr, "/") {
			if strings.Contains(cidr, ":") {
				cidr += "/128"
			} else {
				cidr += "/32"
			}
		}
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed_ips entry %q: %w", part, err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

func allowed(nets []*net.IPNet, addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
