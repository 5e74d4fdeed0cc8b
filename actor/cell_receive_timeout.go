// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import "time"

// setReceiveTimeout sets the idle duration after which the actor receives
// ReceiveTimeout. A zero or negative duration disables it.
func (c *Cell) setReceiveTimeout(timeout time.Duration) {
	if timeout < 0 {
		timeout = 0
	}
	c.receiveTimeout = timeout
}

// checkReceiveTimeout schedules the ReceiveTimeout. A pending one is kept
// unless reschedule is set.
func (c *Cell) checkReceiveTimeout(reschedule bool) {
	if c.receiveTimeout <= 0 {
		c.cancelReceiveTimeout()
		return
	}

	if reschedule || c.receiveTimeoutTask == nil {
		c.rescheduleReceiveTimeout()
	}
}

func (c *Cell) rescheduleReceiveTimeout() {
	c.cancelReceiveTimeout()
	task, err := c.system.ScheduleOnce(c.receiveTimeout, c.self, ReceiveTimeout{}, NoSender)
	if err != nil {
		c.logger.Warnf("cannot schedule receive timeout: %v", err)
		return
	}
	c.receiveTimeoutTask = task
}

func (c *Cell) cancelReceiveTimeout() {
	if c.receiveTimeoutTask != nil {
		c.receiveTimeoutTask.Cancel()
		c.receiveTimeoutTask = nil
	}
}
