// internal/browser/devtools/scripts.go
package devtools

// Functions passed to Runtime.callFunctionOn. `this` is the element, or the
// document for the document-level reads.
const (
	jsScrollIntoView = `function() {
	this.scrollIntoView({block: "nearest", inline: "nearest"});
}`

	jsLocation = `function() {
	const r = this.getBoundingClientRect();
	const w = this.ownerDocument.defaultView;
	return {x: r.left + w.scrollX, y: r.top + w.scrollY};
}`

	jsClientPosition = `function() {
	const r = this.getBoundingClientRect();
	return {x: r.left, y: r.top};
}`

	jsDocumentKey = `function() {
	const d = this.ownerDocument;
	if (!d.__synthmouseKey) {
		Object.defineProperty(d, "__synthmouseKey", {
			value: Date.now().toString(36) + Math.random().toString(36).slice(2),
		});
	}
	return d.__synthmouseKey;
}`

	jsOwnerDocument = `function() { return this.ownerDocument; }`

	jsScrollOffset = `function() {
	const w = this.defaultView;
	return {x: w.scrollX, y: w.scrollY};
}`

	jsViewportSize = `function() {
	const w = this.defaultView;
	return {width: w.innerWidth, height: w.innerHeight};
}`

	jsDocumentHeight = `function() {
	const d = this.documentElement, b = this.body;
	return Math.max(d ? d.scrollHeight : 0, b ? b.scrollHeight : 0);
}`

	jsBodyWidth = `function() { return this.body ? this.body.scrollWidth : 0; }`

	jsParent = `function() { return this.parentElement; }`

	jsMultiple = `function() { return !!this.multiple; }`

	jsIsShown = `function(ignoreOpacity) {
	const shown = (el) => {
		if (!el.isConnected) return false;
		const tag = el.tagName.toLowerCase();
		if (tag === "option" || tag === "optgroup") {
			const select = el.closest("select");
			if (select) return shown(select);
		}
		if (tag === "input" && el.type === "hidden") return false;
		if (tag === "noscript") return false;
		for (let n = el; n; n = n.parentElement) {
			if (n.hidden) return false;
			const cs = getComputedStyle(n);
			if (cs.display === "none") return false;
			if (!ignoreOpacity && parseFloat(cs.opacity) <= 0) return false;
		}
		const cs = getComputedStyle(el);
		if (cs.visibility === "hidden" || cs.visibility === "collapse") return false;
		const r = el.getBoundingClientRect();
		if (r.width > 0 && r.height > 0) return true;
		return Array.from(el.children).some(shown);
	};
	return shown(this);
}`

	jsFire = `function(type, x, y, button, buttons, related) {
	if (!this.isConnected) return false;
	const view = this.ownerDocument.defaultView;
	this.dispatchEvent(new view.MouseEvent(type, {
		bubbles: true, cancelable: true, view: view,
		clientX: x, clientY: y,
		button: Math.max(button, 0), buttons: buttons,
		relatedTarget: related || null,
	}));
	return this.isConnected;
}`

	jsGesture = `function(sequence, button, buttons) {
	const r = this.getBoundingClientRect();
	const x = r.left + r.width / 2, y = r.top + r.height / 2;
	const view = this.ownerDocument.defaultView;
	let fired = 0;
	for (const type of sequence) {
		if (!this.isConnected) break;
		this.dispatchEvent(new view.MouseEvent(type, {
			bubbles: true, cancelable: true, view: view,
			clientX: x, clientY: y, button: button, buttons: buttons,
			detail: type === "dblclick" ? 2 : 1,
		}));
		fired++;
	}
	return fired;
}`

	jsLength = `function() { return this.length; }`

	jsIndex = `function(i) { return this[i]; }`
)

// Expressions passed to Runtime.evaluate. The argument is a JSON string.
const (
	exprQueryCSS = `Array.from(document.querySelectorAll(%s))`

	exprQueryXPath = `(function(expr) {
	const r = document.evaluate(expr, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
	const out = [];
	for (let i = 0; i < r.snapshotLength; i++) {
		const n = r.snapshotItem(i);
		if (n.nodeType === Node.ELEMENT_NODE) out.push(n);
	}
	return out;
})(%s)`
)
