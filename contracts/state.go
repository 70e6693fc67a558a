package contracts

type LauncherState int

const (
	StateStartGame LauncherState = iota
	StateGameRunning
	StateNeedInstall
	StateDownloading
	StateValidating
	StateNeedUpdate
	StateUpdating
	StateMerging
	StateNetworkError
)

func (this LauncherState) String() string {
	switch this {
	case StateStartGame:
		return "StartGame"
	case StateGameRunning:
		return "GameRunning"
	case StateNeedInstall:
		return "NeedInstall"
	case StateDownloading:
		return "Downloading"
	case StateValidating:
		return "Validating"
	case StateNeedUpdate:
		return "NeedUpdate"
	case StateUpdating:
		return "Updating"
	case StateMerging:
		return "Merging"
	case StateNetworkError:
		return "NetworkError"
	default:
		return "Unknown"
	}
}
