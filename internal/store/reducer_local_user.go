package store

import "callcore/internal/domain"

func reduceLocalUser(s *LocalUserState, a Action) *LocalUserState {
	next := *s

	switch act := a.(type) {
	case CameraPreviewOnRequested, CameraPreviewOnTriggered,
		CameraOnRequested, CameraOnTriggered,
		CameraOffRequested, CameraOffTriggered,
		CameraPauseTriggered:
		next.Camera.Operation = domain.CameraOperationPending
	case CameraPreviewOnSucceeded:
		next.Camera.Operation = domain.CameraOperationOn
		next.Camera.Transmission = domain.CameraTransmissionLocal
		next.Camera.Error = nil
		next.VideoStreamID = act.StreamID
	case CameraOnSucceeded:
		next.Camera.Operation = domain.CameraOperationOn
		next.Camera.Transmission = domain.CameraTransmissionRemote
		next.Camera.Error = nil
		next.VideoStreamID = act.StreamID
	case CameraPreviewOnFailed:
		next.Camera.Operation = domain.CameraOperationOff
		next.Camera.Error = act.Err
		next.VideoStreamID = ""
	case CameraOnFailed:
		next.Camera.Operation = domain.CameraOperationOff
		next.Camera.Error = act.Err
		next.VideoStreamID = ""
	case CameraOffSucceeded:
		next.Camera.Operation = domain.CameraOperationOff
		next.Camera.Transmission = domain.CameraTransmissionLocal
		next.VideoStreamID = ""
	case CameraOffFailed:
		// Revert to the stable value before the trigger; the stream is kept.
		next.Camera.Operation = domain.CameraOperationOn
		next.Camera.Error = act.Err
	case CameraPausedSucceeded:
		next.Camera.Operation = domain.CameraOperationPaused
		next.VideoStreamID = ""
	case CameraPausedFailed:
		next.Camera.Operation = domain.CameraOperationOn
		next.Camera.Error = act.Err
	case CameraSwitchTriggered:
		next.Camera.Device = domain.CameraDeviceSwitching
	case CameraSwitchSucceeded:
		next.Camera.Device = act.Device
		next.Camera.Error = nil
	case CameraSwitchFailed:
		next.Camera.Device = act.Previous
		next.Camera.Error = act.Err
	case CameraCountUpdated:
		next.Camera.CamerasCount = act.Count
	case CameraTransmissionUpdated:
		next.Camera.Transmission = act.Transmission

	case MicrophoneOnRequested, MicrophoneOnTriggered,
		MicrophoneOffRequested, MicrophoneOffTriggered:
		next.Audio.Operation = domain.AudioOperationPending
	case MicrophoneOnSucceeded:
		next.Audio.Operation = domain.AudioOperationOn
		next.Audio.Error = nil
	case MicrophoneOnFailed:
		next.Audio.Operation = domain.AudioOperationOff
		next.Audio.Error = act.Err
	case MicrophoneOffSucceeded:
		next.Audio.Operation = domain.AudioOperationOff
		next.Audio.Error = nil
	case MicrophoneOffFailed:
		next.Audio.Operation = domain.AudioOperationOn
		next.Audio.Error = act.Err
	case MicrophoneMuteStateUpdated:
		if act.IsMuted {
			next.Audio.Operation = domain.AudioOperationOff
		} else {
			next.Audio.Operation = domain.AudioOperationOn
		}
	case AudioDeviceChangeRequested:
		next.Audio.Device.Requested = act.Device
	case AudioDeviceChangeSucceeded:
		next.Audio.Device = domain.AudioDeviceSelectionStatus{Selected: act.Device}
		next.Audio.Error = nil
	case AudioDeviceChangeFailed:
		next.Audio.Device.Requested = ""
		next.Audio.Error = act.Err
	case BluetoothStateUpdated:
		next.Audio.BluetoothState = act.State
	case HeadphonesPluggedUpdated:
		next.Audio.IsHeadphonePlugged = act.Plugged

	case LocalParticipantRoleUpdated:
		next.Role = act.Role
	default:
		return s
	}

	if next == *s {
		return s
	}
	return &next
}
