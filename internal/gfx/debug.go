package gfx

import (
	"github.com/rrenderer/rrenderer/internal/errs"
	"github.com/rrenderer/rrenderer/internal/logging"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
)

func (i *Instance) messengerCreateInfo() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityInfo,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    i.logValidation,
	}
}

func (i *Instance) setupDebugMessenger() error {
	var err error
	debugExt := ext_debug_utils.CreateExtensionFromInstance(i.Handle)
	i.messenger, _, err = debugExt.CreateDebugUtilsMessenger(i.Handle, nil, i.messengerCreateInfo())
	if err != nil {
		return errs.Vulkan(errs.CreateDebugMessenger, err)
	}
	return nil
}

func (i *Instance) logValidation(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	i.log.WithField("type", msgType.String()).
		Logf(logging.LevelFor(validationSeverity(severity)), "validation layer: %s", data.Message)
	return false
}

func validationSeverity(severity ext_debug_utils.DebugUtilsMessageSeverityFlags) logging.Severity {
	switch {
	case severity&ext_debug_utils.SeverityError != 0:
		return logging.SeverityError
	case severity&ext_debug_utils.SeverityWarning != 0:
		return logging.SeverityWarning
	case severity&ext_debug_utils.SeverityInfo != 0:
		return logging.SeverityInfo
	default:
		return logging.SeverityVerbose
	}
}
