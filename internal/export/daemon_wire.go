package export

// daemonRequest is the envelope of every message sent to the daemon.
type daemonRequest[T any] struct {
	Ack         bool    `json:"ack"`
	Command     string  `json:"command"`
	RequestID   *string `json:"request_id"`
	Destination string  `json:"destination"`
	Origin      *string `json:"origin"`
	Data        T       `json:"data"`
}

type addKeyCommand struct {
	KCUser       *string `json:"kc_user"`
	KCService    *string `json:"kc_service"`
	MnemonicOrPK string  `json:"mnemonic_or_pk"`
	Label        *string `json:"label"`
	Private      *bool   `json:"private"`
}

func newAddKeyCommand(req Request) addKeyCommand {
	cmd := addKeyCommand{
		MnemonicOrPK: req.Key,
		Private:      &req.Private,
	}
	if req.Label != "" {
		label := req.Label
		cmd.Label = &label
	}
	return cmd
}

type daemonResponse struct {
	Ack         bool               `json:"ack"`
	Command     string             `json:"command"`
	Data        daemonResponseData `json:"data"`
	Destination string             `json:"destination"`
	Origin      string             `json:"origin"`
	RequestID   string             `json:"request_id"`
}

type daemonResponseData struct {
	Command      *string       `json:"command"`
	Success      bool          `json:"success"`
	Fingerprint  *uint32       `json:"fingerprint"`
	Error        *string       `json:"error"`
	ErrorDetails *errorDetails `json:"error_details"`
}

type errorDetails struct {
	Message string `json:"message"`
}

func (d daemonResponseData) errorMessage() string {
	switch {
	case d.ErrorDetails != nil && d.ErrorDetails.Message != "":
		return d.ErrorDetails.Message
	case d.Error != nil && *d.Error != "":
		return *d.Error
	default:
		return "unsuccessful response"
	}
}
