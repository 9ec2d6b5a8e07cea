package entity

// ModeName は推定モードの名前です。
type ModeName string

const (
	ModeDay ModeName = "day"
	Mode5m  ModeName = "5m"
	Mode15m ModeName = "15m"
)

const (
	// DefaultDayWindow は日足モードの回帰ウィンドウ（直近3本）です。
	DefaultDayWindow = 3
	// DefaultDayAlignTail は日足モードで結合直後に残す行数です。
	DefaultDayAlignTail = 10
	// Default5mWindow は5分足モードの回帰ウィンドウ（約3時間）です。
	Default5mWindow = 36
	// Default15mWindow は15分足モードの回帰ウィンドウ（約8時間）です。
	Default15mWindow = 32
)

// Mode is one estimator configuration: which bars to align and how many
// of the most recent aligned rows the regression uses.
type Mode struct {
	Name        ModeName
	Granularity Granularity
	AlignTail   int // Rows kept right after alignment; 0 keeps all
	Window      int // Rows passed to the regression
}

// NewModes は3つのモードをウィンドウ長を指定して生成します。時間足と期間は固定です。
func NewModes(dayWindow, dayAlignTail, window5m, window15m int) []Mode {
	return []Mode{
		{
			Name:        ModeDay,
			Granularity: Granularity{Interval: Interval1d, Period: Period1mo},
			AlignTail:   dayAlignTail,
			Window:      dayWindow,
		},
		{
			Name:        Mode5m,
			Granularity: Granularity{Interval: Interval5m, Period: Period5d},
			Window:      window5m,
		},
		{
			Name:        Mode15m,
			Granularity: Granularity{Interval: Interval15m, Period: Period60d},
			Window:      window15m,
		},
	}
}

// DefaultModes は既定のウィンドウ長で3モードを返します。
func DefaultModes() []Mode {
	return NewModes(DefaultDayWindow, DefaultDayAlignTail, Default5mWindow, Default15mWindow)
}
