package theme

// thRegisterBuiltins registers all built-in themes in the registry.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thDefaultTheme(),
		thGruvboxTheme(),
		thNordTheme(),
		thCatppuccinTheme(),
		thDraculaTheme(),
	} {
		Register(t)
	}
}

// thDefaultTheme returns the dark neutral theme with purple accent.
func thDefaultTheme() Theme {
	return Theme{
		Name:       "default",
		Background: "#1e1e1e",
		Foreground: "#d4d4d4",
		Dim:        "#6b6b6b",
		Accent:     "#7C3AED",

		Border:      "#3e3e3e",
		BorderFocus: "#7C3AED",
		Title:       "#d4d4d4",

		RingFill:   "#4ec970",
		RingStroke: "#d4d4d4",
		RingTrack:  "#2a2a2a",

		Readout:  "#d4d4d4",
		HelpKey:  "#7C3AED",
		HelpDesc: "#6b6b6b",
	}
}

// thGruvboxTheme returns the warm retro Gruvbox theme.
func thGruvboxTheme() Theme {
	return Theme{
		Name:       "gruvbox",
		Background: "#282828",
		Foreground: "#ebdbb2",
		Dim:        "#928374",
		Accent:     "#fe8019",

		Border:      "#504945",
		BorderFocus: "#fe8019",
		Title:       "#ebdbb2",

		RingFill:   "#b8bb26",
		RingStroke: "#ebdbb2",
		RingTrack:  "#3c3836",

		Readout:  "#fabd2f",
		HelpKey:  "#fe8019",
		HelpDesc: "#928374",
	}
}

// thNordTheme returns the arctic Nord theme.
func thNordTheme() Theme {
	return Theme{
		Name:       "nord",
		Background: "#2e3440",
		Foreground: "#eceff4",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",

		Border:      "#3b4252",
		BorderFocus: "#88c0d0",
		Title:       "#eceff4",

		RingFill:   "#a3be8c",
		RingStroke: "#eceff4",
		RingTrack:  "#3b4252",

		Readout:  "#88c0d0",
		HelpKey:  "#88c0d0",
		HelpDesc: "#4c566a",
	}
}

// thCatppuccinTheme returns the Catppuccin Mocha theme.
func thCatppuccinTheme() Theme {
	return Theme{
		Name:       "catppuccin",
		Background: "#1e1e2e",
		Foreground: "#cdd6f4",
		Dim:        "#6c7086",
		Accent:     "#cba6f7",

		Border:      "#313244",
		BorderFocus: "#cba6f7",
		Title:       "#cdd6f4",

		RingFill:   "#a6e3a1",
		RingStroke: "#cdd6f4",
		RingTrack:  "#313244",

		Readout:  "#f9e2af",
		HelpKey:  "#cba6f7",
		HelpDesc: "#6c7086",
	}
}

// thDraculaTheme returns the Dracula theme.
func thDraculaTheme() Theme {
	return Theme{
		Name:       "dracula",
		Background: "#282a36",
		Foreground: "#f8f8f2",
		Dim:        "#6272a4",
		Accent:     "#bd93f9",

		Border:      "#44475a",
		BorderFocus: "#bd93f9",
		Title:       "#f8f8f2",

		RingFill:   "#50fa7b",
		RingStroke: "#f8f8f2",
		RingTrack:  "#44475a",

		Readout:  "#8be9fd",
		HelpKey:  "#bd93f9",
		HelpDesc: "#6272a4",
	}
}
