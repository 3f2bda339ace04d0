package scene

// Window is the inclusive step range covered by one scheduled scene.
type Window struct {
	SceneName    string
	Participants []string
	Start        int
	End          int
}

// Windows assigns step windows to a scene sequence: scene i covers
// [1 + sum(rounds before i), sum(rounds through i)].
func Windows(scenes []Spec) []Window {
	windows := make([]Window, 0, len(scenes))
	step := 0
	for _, sc := range scenes {
		windows = append(windows, Window{
			SceneName:    sc.SceneType,
			Participants: append([]string(nil), sc.Participants...),
			Start:        step + 1,
			End:          step + sc.NumRounds,
		})
		step += sc.NumRounds
	}
	return windows
}

// WindowFor locates the window containing a step, if any.
func WindowFor(windows []Window, step int) (Window, bool) {
	for _, w := range windows {
		if step >= w.Start && step <= w.End {
			return w, true
		}
	}
	return Window{}, false
}
