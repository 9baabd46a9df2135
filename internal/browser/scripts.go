package browser

// Every script is a function expression for rod's Eval. Each one builds and
// discards its own canvas or audio graph. Returning null means the page has
// no such capability.

const canvasJS = `() => {
	const canvas = document.createElement('canvas');
	const ctx = canvas.getContext('2d');
	if (!ctx) return null;

	canvas.width = 200;
	canvas.height = 50;

	ctx.textBaseline = 'top';
	ctx.font = '14px Arial';
	ctx.fillStyle = '#f60';
	ctx.fillRect(125, 1, 62, 20);

	ctx.fillStyle = '#069';
	ctx.fillText('Canvas fingerprint \u{1F3A8}', 2, 15);
	ctx.fillStyle = 'rgba(102, 204, 0, 0.7)';
	ctx.fillText('Canvas fingerprint \u{1F3A8}', 4, 17);

	ctx.globalCompositeOperation = 'multiply';
	ctx.fillStyle = 'rgb(255,0,255)';
	ctx.beginPath();
	ctx.arc(50, 25, 20, 0, Math.PI * 2, true);
	ctx.closePath();
	ctx.fill();

	return canvas.toDataURL();
}`

const environmentJS = `() => ({
	screenWidth: screen.width,
	screenHeight: screen.height,
	colorDepth: screen.colorDepth,
	timezone: Intl.DateTimeFormat().resolvedOptions().timeZone,
	language: navigator.language,
	platform: navigator.platform,
	cookieEnabled: navigator.cookieEnabled,
	doNotTrack: navigator.doNotTrack === undefined ? null : navigator.doNotTrack,
	hardwareConcurrency: navigator.hardwareConcurrency || 0,
})`

const webglJS = `() => {
	const canvas = document.createElement('canvas');
	const gl = canvas.getContext('webgl') || canvas.getContext('experimental-webgl');
	if (!gl) return null;

	const debugInfo = gl.getExtension('WEBGL_debug_renderer_info');
	const dims = gl.getParameter(gl.MAX_VIEWPORT_DIMS);
	const info = {
		vendor: debugInfo ? gl.getParameter(debugInfo.UNMASKED_VENDOR_WEBGL) : 'unknown',
		renderer: debugInfo ? gl.getParameter(debugInfo.UNMASKED_RENDERER_WEBGL) : 'unknown',
		version: gl.getParameter(gl.VERSION),
		shadingLanguageVersion: gl.getParameter(gl.SHADING_LANGUAGE_VERSION),
		maxTextureSize: gl.getParameter(gl.MAX_TEXTURE_SIZE),
		maxViewportDims: dims ? Array.from(dims) : [],
	};
	const lose = gl.getExtension('WEBGL_lose_context');
	if (lose) lose.loseContext();
	return info;
}`

const audioJS = `async () => {
	const AudioContext = window.AudioContext || window.webkitAudioContext;
	if (!AudioContext) return null;

	const audioCtx = new AudioContext();
	const oscillator = audioCtx.createOscillator();
	const analyser = audioCtx.createAnalyser();
	const gainNode = audioCtx.createGain();
	const scriptProcessor = audioCtx.createScriptProcessor(4096, 1, 1);

	oscillator.type = 'triangle';
	oscillator.frequency.setValueAtTime(10000, audioCtx.currentTime);
	gainNode.gain.setValueAtTime(0, audioCtx.currentTime);

	oscillator.connect(analyser);
	analyser.connect(scriptProcessor);
	scriptProcessor.connect(gainNode);
	gainNode.connect(audioCtx.destination);
	oscillator.start(0);

	const info = {
		sampleRate: audioCtx.sampleRate,
		maxChannelCount: audioCtx.destination.maxChannelCount,
		numberOfInputs: audioCtx.destination.numberOfInputs,
		numberOfOutputs: audioCtx.destination.numberOfOutputs,
		channelCount: audioCtx.destination.channelCount,
	};

	oscillator.stop();
	await audioCtx.close();
	return info;
}`

const measureTextJS = `(fonts, text) => {
	const ctx = document.createElement('canvas').getContext('2d');
	if (!ctx) return null;
	return fonts.map(font => {
		ctx.font = font;
		return ctx.measureText(text).width;
	});
}`

const pageInfoJS = `() => ({
	hostname: window.location.hostname,
	pathname: window.location.pathname,
	userAgent: navigator.userAgent,
	referrer: document.referrer,
	cookieEnabled: navigator.cookieEnabled,
	javaEnabled: typeof navigator.javaEnabled === 'function' ? navigator.javaEnabled() : false,
	plugins: Array.from(navigator.plugins || []).map(p => p.name),
	mimeTypes: Array.from(navigator.mimeTypes || []).map(m => m.type),
})`

const readyJS = `() => new Promise(resolve => {
	if (document.readyState !== 'loading') {
		resolve(document.readyState);
		return;
	}
	document.addEventListener('DOMContentLoaded', () => resolve(document.readyState), { once: true });
})`

const helperReadyJS = `(name, method) => !!window[name] && typeof window[name][method] === 'function'`

const helperGenerateJS = `async (name, method) => {
	const value = await window[name][method]();
	return typeof value === 'string' ? value : JSON.stringify(value);
}`

const postJS = `async (endpoint, body, headers, timeout) => {
	const response = await fetch(endpoint, {
		method: 'POST',
		headers: headers,
		body: body,
		credentials: 'same-origin',
		signal: AbortSignal.timeout(timeout),
	});
	return { ok: response.ok, status: response.status, statusText: response.statusText };
}`
