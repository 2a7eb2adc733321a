package compiler

import "notran/internal/bytecode"

type keywordHandler func(*Compiler)

var keywordTable = map[string]keywordHandler{
	"NVC": (*Compiler).handleNVC,
	"ACT": func(c *Compiler) { c.handleVoiceControl(true) },
	"DCT": func(c *Compiler) { c.handleVoiceControl(false) },
	"WAV": (*Compiler).handleWAV,
	"TPO": (*Compiler).handleTPO,
	"ABS": (*Compiler).handleABS,
	"JMP": func(c *Compiler) { c.handleJump(bytecode.OpJump) },
	"JSR": func(c *Compiler) { c.handleJump(bytecode.OpCall) },
	"RTS": (*Compiler).handleRTS,
	"SUB": (*Compiler).handleSUB,
	"ESB": (*Compiler).handleESB,
	"END": (*Compiler).handleEND,
}

// parseKeyword tries to match a 3-letter keyword at the cursor; on a
// match it consumes it and runs the handler, returning true. On no
// match it leaves the cursor untouched so the caller can try parseNote.
func (c *Compiler) parseKeyword() bool {
	c.skipWhitespace()
	if c.inputPos+3 > len(c.line) {
		return false
	}
	kw := c.line[c.inputPos : c.inputPos+3]
	handler, ok := keywordTable[kw]
	if !ok {
		return false
	}
	c.inputPos += 3
	handler(c)
	return true
}

func (c *Compiler) checkEventConflict() {
	if c.eventBuilding {
		c.reportError(ErrExecCtrlInEvent)
		c.eventBuilding = false
	}
}

func (c *Compiler) handleNVC() {
	n := c.parseNumericArg()
	if c.errorFlag {
		return
	}
	if !c.isValidVoice(n) {
		c.reportError(ErrArgOutOfRange)
		return
	}
	c.checkEventConflict()
	c.emitByte(bytecode.OpSetVoices)
	c.emitByte(uint8(n))
}

func (c *Compiler) handleVoiceControl(activate bool) {
	op := uint8(bytecode.OpDeactivate)
	if activate {
		op = bytecode.OpActivate
	}

	for {
		c.skipWhitespace()
		n := c.parseNumericArg()
		idx := n - 1

		if !c.isValidVoice(n) {
			c.reportError(ErrArgOutOfRange)
			c.skipWhitespace()
			if c.cur() == ',' {
				c.advance()
				continue
			}
			break
		}

		c.checkEventConflict()
		c.emitByte(op)
		c.emitByte(uint8(idx))

		if activate {
			c.activateVoice(idx)
		} else {
			c.deactivateVoice(idx)
		}

		c.skipWhitespace()
		if c.cur() != ',' {
			break
		}
		c.advance()
	}
}

func (c *Compiler) handleWAV() {
	c.skipWhitespace()
	waveform := c.parseNumericArg()
	if c.errorFlag {
		return
	}
	if !c.isValidWaveform(waveform) {
		c.reportError(ErrArgOutOfRange)
		return
	}

	c.skipWhitespace()
	if c.cur() != ',' {
		c.reportError(ErrIncomprehensibleSpec)
		return
	}
	c.advance()

	c.skipWhitespace()
	voiceNum := c.parseNumericArg()
	if c.errorFlag {
		return
	}
	idx := voiceNum - 1
	if !c.isValidVoice(voiceNum) {
		c.reportError(ErrArgOutOfRange)
		return
	}

	if c.cur() != ';' && !isLineEnd(c.cur()) && c.cur() != ' ' {
		c.reportError(ErrIncomprehensibleSpec)
		for !isLineEnd(c.cur()) && c.cur() != ';' {
			c.advance()
		}
		return
	}

	c.voices[idx].UseAbsolute = true
	c.voices[idx].Waveform = uint8(waveform - 1)
}

func (c *Compiler) handleTPO() {
	c.skipWhitespace()
	tempo := c.parseNumericArg()
	if c.errorFlag {
		return
	}
	if tempo < bytecode.MinTempo || tempo > bytecode.MaxTempo {
		c.reportError(ErrArgOutOfRange)
		return
	}
	c.checkEventConflict()
	c.emitByte(bytecode.OpTempo)
	c.emitByte(uint8(tempo))
}

func (c *Compiler) handleABS() {
	for i := range c.voices {
		c.voices[i].UseAbsolute = true
	}
}

func (c *Compiler) handleJump(opcode uint8) {
	c.skipWhitespace()
	targetID := c.parseNumericArg()
	if c.errorFlag {
		return
	}
	if targetID < 1 || targetID > 255 {
		c.reportError(ErrArgOutOfRange)
		return
	}

	addr, ok := c.findSymbol(uint8(targetID))
	if !ok {
		c.reportError(ErrUndefinedIdentifier)
		c.checkEventConflict()
		return
	}

	c.checkEventConflict()
	c.emitByte(opcode)
	c.emitWord(addr - c.baseAddress)
}

func (c *Compiler) handleRTS() {
	c.checkEventConflict()
	c.emitByte(bytecode.OpReturn)
}

func (c *Compiler) handleSUB() {
	if c.subAddress != -1 {
		c.reportError(ErrNestedSubEsb)
		c.checkEventConflict()
		return
	}
	c.checkEventConflict()
	c.emitByte(bytecode.OpJump)
	c.subAddress = len(c.code)
	c.emitWord(0x0000)
}

func (c *Compiler) handleESB() {
	if c.subAddress == -1 {
		c.reportError(ErrEsbWithoutSub)
		c.checkEventConflict()
		return
	}
	c.checkEventConflict()

	relAddr := uint16(len(c.code)) // base_address cancels out, matching notcmp.c
	c.code[c.subAddress] = byte(relAddr)
	c.code[c.subAddress+1] = byte(relAddr >> 8)
	c.subAddress = -1
}

func (c *Compiler) handleEND() {
	c.emitByte(bytecode.OpEnd)
	c.endFlag = true
	if c.subAddress != -1 {
		c.reportError(ErrHangingSub)
	}
}
