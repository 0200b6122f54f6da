package audit

import (
	"net"
	"runtime"
	"strings"
)

// Unknown is used for client fields that could not be determined.
const Unknown = "Unknown"

// Client describes where an audited action came from.
type Client struct {
	Browser   string `json:"browser"`
	OS        string `json:"os"`
	Device    string `json:"device"`
	IPAddress string `json:"ip_address"`
}

// DetectClient derives client details from request metadata. The first
// X-Forwarded-For hop wins over remoteAddr.
func DetectClient(userAgent, forwardedFor, remoteAddr string) Client {
	return Client{
		Browser:   detectBrowser(userAgent),
		OS:        detectOS(userAgent),
		Device:    detectDevice(userAgent),
		IPAddress: clientIP(forwardedFor, remoteAddr),
	}
}

// LocalClient describes the current process for command-line actions.
func LocalClient(agent string) Client {
	return Client{
		Browser:   agent,
		OS:        osName(runtime.GOOS),
		Device:    "Terminal",
		IPAddress: "local",
	}
}

func detectBrowser(ua string) string {
	// Edge and Chrome user agents also carry "Safari"; Edge carries "Chrome".
	switch {
	case strings.Contains(ua, "Edg"):
		return "Edge"
	case strings.Contains(ua, "Chrome"):
		return "Chrome"
	case strings.Contains(ua, "Firefox"):
		return "Firefox"
	case strings.Contains(ua, "Safari"):
		return "Safari"
	}
	return Unknown
}

func detectOS(ua string) string {
	switch {
	case strings.Contains(ua, "Windows"):
		return "Windows"
	case strings.Contains(ua, "Android"):
		return "Android"
	case strings.Contains(ua, "iPhone"), strings.Contains(ua, "iPad"), strings.Contains(ua, "iOS"):
		return "iOS"
	case strings.Contains(ua, "Mac"):
		return "macOS"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	}
	return Unknown
}

func detectDevice(ua string) string {
	switch {
	case strings.Contains(ua, "Tablet"), strings.Contains(ua, "iPad"):
		return "Tablet"
	case strings.Contains(ua, "Mobile"):
		return "Mobile"
	}
	return "Desktop"
}

func clientIP(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	remoteAddr = strings.TrimSpace(remoteAddr)
	if remoteAddr == "" {
		return Unknown
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

func osName(goos string) string {
	switch goos {
	case "darwin":
		return "macOS"
	case "windows":
		return "Windows"
	case "linux":
		return "Linux"
	case "android":
		return "Android"
	case "ios":
		return "iOS"
	}
	return goos
}
