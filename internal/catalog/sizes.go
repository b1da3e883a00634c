package catalog

const (
	RoleApp          = "app"
	RoleStore        = "store"
	RoleNotification = "notification"
	RoleSettings     = "settings"
	RoleSpotlight    = "spotlight"
	RoleFavicon      = "favicon"
)

func entry(p Platform, id string, edge int, name, desc, filename, idiom, scale, role string) TargetSize {
	return TargetSize{
		Kind:        KindCatalog,
		ID:          id,
		Platform:    p,
		Width:       edge,
		Height:      edge,
		Name:        name,
		Description: desc,
		Filename:    filename,
		Idiom:       idiom,
		Scale:       scale,
		Role:        role,
	}
}

var iosSizes = []TargetSize{
	entry(PlatformIOS, "ios-20", 20, "Notification", "iPad notification 20pt @1x", "Icon-20.{ext}", "ipad", "1x", RoleNotification),
	entry(PlatformIOS, "ios-20@2x", 40, "Notification @2x", "Notification 20pt @2x", "Icon-20@2x.{ext}", "iphone", "2x", RoleNotification),
	entry(PlatformIOS, "ios-20@3x", 60, "Notification @3x", "iPhone notification 20pt @3x", "Icon-20@3x.{ext}", "iphone", "3x", RoleNotification),
	entry(PlatformIOS, "ios-29", 29, "Settings", "Settings 29pt @1x", "Icon-29.{ext}", "ipad", "1x", RoleSettings),
	entry(PlatformIOS, "ios-29@2x", 58, "Settings @2x", "Settings 29pt @2x", "Icon-29@2x.{ext}", "iphone", "2x", RoleSettings),
	entry(PlatformIOS, "ios-29@3x", 87, "Settings @3x", "iPhone settings 29pt @3x", "Icon-29@3x.{ext}", "iphone", "3x", RoleSettings),
	entry(PlatformIOS, "ios-40", 40, "Spotlight", "iPad spotlight 40pt @1x", "Icon-40.{ext}", "ipad", "1x", RoleSpotlight),
	entry(PlatformIOS, "ios-40@2x", 80, "Spotlight @2x", "Spotlight 40pt @2x", "Icon-40@2x.{ext}", "iphone", "2x", RoleSpotlight),
	entry(PlatformIOS, "ios-40@3x", 120, "Spotlight @3x", "iPhone spotlight 40pt @3x", "Icon-40@3x.{ext}", "iphone", "3x", RoleSpotlight),
	entry(PlatformIOS, "ios-60@2x", 120, "iPhone App @2x", "iPhone app 60pt @2x", "Icon-60@2x.{ext}", "iphone", "2x", RoleApp),
	entry(PlatformIOS, "ios-60@3x", 180, "iPhone App @3x", "iPhone app 60pt @3x", "Icon-60@3x.{ext}", "iphone", "3x", RoleApp),
	entry(PlatformIOS, "ios-76", 76, "iPad App", "iPad app 76pt @1x", "Icon-76.{ext}", "ipad", "1x", RoleApp),
	entry(PlatformIOS, "ios-76@2x", 152, "iPad App @2x", "iPad app 76pt @2x", "Icon-76@2x.{ext}", "ipad", "2x", RoleApp),
	entry(PlatformIOS, "ios-83.5@2x", 167, "iPad Pro App", "iPad Pro app 83.5pt @2x", "Icon-83.5@2x.{ext}", "ipad", "2x", RoleApp),
	entry(PlatformIOS, "ios-57", 57, "Legacy iPhone", "iPhone app 57pt @1x (iOS 6)", "Icon-57.{ext}", "iphone", "1x", RoleApp),
	entry(PlatformIOS, "ios-57@2x", 114, "Legacy iPhone @2x", "iPhone app 57pt @2x (iOS 6)", "Icon-57@2x.{ext}", "iphone", "2x", RoleApp),
	entry(PlatformIOS, "ios-72", 72, "Legacy iPad", "iPad app 72pt @1x (iOS 6)", "Icon-72.{ext}", "ipad", "1x", RoleApp),
	entry(PlatformIOS, "ios-72@2x", 144, "Legacy iPad @2x", "iPad app 72pt @2x (iOS 6)", "Icon-72@2x.{ext}", "ipad", "2x", RoleApp),
	entry(PlatformIOS, "ios-1024", 1024, "App Store", "App Store marketing icon", "Icon-1024.{ext}", "ios-marketing", "1x", RoleStore),
}

var androidSizes = []TargetSize{
	entry(PlatformAndroid, "android-mdpi", 48, "mdpi", "Launcher icon, medium density", "mipmap-mdpi/ic_launcher.{ext}", "", "1x", RoleApp),
	entry(PlatformAndroid, "android-hdpi", 72, "hdpi", "Launcher icon, high density", "mipmap-hdpi/ic_launcher.{ext}", "", "1.5x", RoleApp),
	entry(PlatformAndroid, "android-xhdpi", 96, "xhdpi", "Launcher icon, extra-high density", "mipmap-xhdpi/ic_launcher.{ext}", "", "2x", RoleApp),
	entry(PlatformAndroid, "android-xxhdpi", 144, "xxhdpi", "Launcher icon, extra-extra-high density", "mipmap-xxhdpi/ic_launcher.{ext}", "", "3x", RoleApp),
	entry(PlatformAndroid, "android-xxxhdpi", 192, "xxxhdpi", "Launcher icon, extra-extra-extra-high density", "mipmap-xxxhdpi/ic_launcher.{ext}", "", "4x", RoleApp),
	entry(PlatformAndroid, "android-playstore", 512, "Play Store", "Google Play store listing icon", "playstore-icon.{ext}", "", "1x", RoleStore),
}

var watchSizes = []TargetSize{
	entry(PlatformWatchOS, "watch-24@2x", 48, "Notification 38mm", "Notification center 24pt @2x", "AppIcon-24@2x.{ext}", "watch", "2x", RoleNotification),
	entry(PlatformWatchOS, "watch-27.5@2x", 55, "Notification 42mm", "Notification center 27.5pt @2x", "AppIcon-27.5@2x.{ext}", "watch", "2x", RoleNotification),
	entry(PlatformWatchOS, "watch-29@2x", 58, "Companion Settings @2x", "Companion settings 29pt @2x", "AppIcon-29@2x.{ext}", "watch", "2x", RoleSettings),
	entry(PlatformWatchOS, "watch-29@3x", 87, "Companion Settings @3x", "Companion settings 29pt @3x", "AppIcon-29@3x.{ext}", "watch", "3x", RoleSettings),
	entry(PlatformWatchOS, "watch-40@2x", 80, "Home Screen 38mm", "App launcher 40pt @2x", "AppIcon-40@2x.{ext}", "watch", "2x", RoleApp),
	entry(PlatformWatchOS, "watch-44@2x", 88, "Home Screen 40mm", "App launcher 44pt @2x", "AppIcon-44@2x.{ext}", "watch", "2x", RoleApp),
	entry(PlatformWatchOS, "watch-50@2x", 100, "Home Screen 44mm", "App launcher 50pt @2x", "AppIcon-50@2x.{ext}", "watch", "2x", RoleApp),
	entry(PlatformWatchOS, "watch-86@2x", 172, "Short Look 38mm", "Short look 86pt @2x", "AppIcon-86@2x.{ext}", "watch", "2x", RoleApp),
	entry(PlatformWatchOS, "watch-98@2x", 196, "Short Look 42mm", "Short look 98pt @2x", "AppIcon-98@2x.{ext}", "watch", "2x", RoleApp),
	entry(PlatformWatchOS, "watch-108@2x", 216, "Short Look 44mm", "Short look 108pt @2x", "AppIcon-108@2x.{ext}", "watch", "2x", RoleApp),
	entry(PlatformWatchOS, "watch-1024", 1024, "App Store", "watchOS App Store marketing icon", "AppIcon-1024.{ext}", "watch-marketing", "1x", RoleStore),
}

var webSizes = []TargetSize{
	entry(PlatformWeb, "web-favicon-16", 16, "Favicon 16", "Browser tab favicon", "favicon-16x16.{ext}", "", "1x", RoleFavicon),
	entry(PlatformWeb, "web-favicon-32", 32, "Favicon 32", "Browser tab favicon (retina)", "favicon-32x32.{ext}", "", "1x", RoleFavicon),
	entry(PlatformWeb, "web-favicon-48", 48, "Favicon 48", "Windows site favicon", "favicon-48x48.{ext}", "", "1x", RoleFavicon),
	entry(PlatformWeb, "web-apple-touch", 180, "Apple Touch Icon", "Home screen bookmark on iOS", "apple-touch-icon.{ext}", "", "1x", RoleApp),
	entry(PlatformWeb, "web-chrome-192", 192, "Android Chrome 192", "Web app manifest icon", "android-chrome-192x192.{ext}", "", "1x", RoleApp),
	entry(PlatformWeb, "web-chrome-512", 512, "Android Chrome 512", "Web app manifest splash icon", "android-chrome-512x512.{ext}", "", "1x", RoleApp),
}
