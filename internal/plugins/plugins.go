// Package plugins contains the plugins installed onto the application at
// bootstrap: the UI component library, the router and the icon component.
package plugins

import (
	"fmt"

	"github.com/picturedesk/picturedesk/internal/app"
	"github.com/picturedesk/picturedesk/internal/icons"
)

// Plugin names.
const (
	UILibraryName     = "element-plus"
	RouterName        = "router"
	IconComponentName = "font-awesome"
)

// IconComponentTag is the tag the icon component is registered under.
const IconComponentTag = "font-awesome-icon"

// uiComponents are the library components used by the gallery views.
var uiComponents = []string{
	"el-button",
	"el-dialog",
	"el-dropdown",
	"el-dropdown-item",
	"el-dropdown-menu",
	"el-empty",
	"el-image",
	"el-input",
	"el-message-box",
	"el-option",
	"el-pagination",
	"el-rate",
	"el-select",
	"el-tag",
	"el-tooltip",
}

// UILibrary installs the UI component library.
type UILibrary struct{}

func (UILibrary) Name() string { return UILibraryName }

func (UILibrary) Install(a *app.Application) error {
	for _, tag := range uiComponents {
		if err := a.Component(tag); err != nil {
			return err
		}
	}
	return nil
}

// Router installs the router view components and a static route table.
// Route matching happens in the page; this only publishes the table.
type Router struct {
	Routes []app.Route
}

func (Router) Name() string { return RouterName }

func (r Router) Install(a *app.Application) error {
	for _, tag := range []string{"router-view", "router-link"} {
		if err := a.Component(tag); err != nil {
			return err
		}
	}
	return a.AddRoutes(r.Routes...)
}

// IconComponent registers the icon-rendering component and populates the
// application's icon registry with Icons.
type IconComponent struct {
	Icons []icons.Definition
}

func (IconComponent) Name() string { return IconComponentName }

func (p IconComponent) Install(a *app.Application) error {
	if err := a.Component(IconComponentTag); err != nil {
		return err
	}
	if err := a.Icons().AddAll(p.Icons...); err != nil {
		return fmt.Errorf("populate icon registry: %w", err)
	}
	return nil
}
